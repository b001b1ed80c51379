// Package io reads and writes Block Relocation Problem instances and renders
// bays and move sequences for humans.
//
// # Text Format
//
// The text format is a stream of whitespace-separated integers: the number of
// stacks, the number of tiers, the total number of blocks, then for every
// stack its height followed by that many priorities from bottom to top:
//
//	3 3 5
//	2 1 4
//	2 3 2
//	1 5
//
// Line breaks carry no meaning. Use [ReadText] to decode from any io.Reader
// or [ImportText] to read a file; [WriteText] produces the same layout, one
// stack per line.
//
// # JSON Format
//
// The JSON format mirrors [bay.Instance]:
//
//	{"tiers": 3, "stacks": [[1, 4], [3, 2], [5]]}
//
// [ReadJSON] and [WriteJSON] handle it; the HTTP API accepts the same body.
//
// # Rendering
//
// [WriteLayout] draws the bay tier by tier from the top:
//
//	[   ][   ][   ]
//	[  4][  2][   ]
//	[  1][  3][  5]
//	---------------
//	   0    1    2
//
// [FormatMoves] renders a relocation sequence as "[p: s -> d, ...]", or "?"
// when no feasible sequence exists.
//
// Every reader validates the decoded instance; failures carry the codes
// [errors.ErrCodeInvalidFormat] (malformed input) or
// [errors.ErrCodeInvalidInstance] (well-formed but impossible bay).
//
// [errors.ErrCodeInvalidFormat]: github.com/matzehuels/relocator/pkg/errors.ErrCodeInvalidFormat
// [errors.ErrCodeInvalidInstance]: github.com/matzehuels/relocator/pkg/errors.ErrCodeInvalidInstance
package io
