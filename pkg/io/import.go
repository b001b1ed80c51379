package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/errors"
)

// ReadText decodes an instance in the text format from r.
//
// ReadText returns an error coded ErrCodeInvalidFormat if a token is not an
// integer, the input ends early, trailing tokens follow the last stack or the
// declared block count does not match the stacks. Structural problems such as
// an overfull stack are reported by [bay.Instance.Validate]. Header
// dimensions beyond [bay.MaxStacks] or [bay.MaxTiers] are rejected before
// any stack is read.
// ReadText does not close r.
func ReadText(r io.Reader) (*bay.Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	pos := 0
	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", what)
			}
			return 0, errors.New(errors.ErrCodeInvalidFormat, "unexpected end of input, expected %s", what)
		}
		pos++
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, errors.New(errors.ErrCodeInvalidFormat, "token %d (%s): %q is not an integer", pos, what, sc.Text())
		}
		return v, nil
	}

	nStacks, err := next("stack count")
	if err != nil {
		return nil, err
	}
	tiers, err := next("tier count")
	if err != nil {
		return nil, err
	}
	nBlocks, err := next("block count")
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("stacks", nStacks, 1, bay.MaxStacks); err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("tiers", tiers, 1, bay.MaxTiers); err != nil {
		return nil, err
	}

	stacks := make([][]int, nStacks)
	total := 0
	for s := range stacks {
		h, err := next(fmt.Sprintf("height of stack %d", s))
		if err != nil {
			return nil, err
		}
		if err := errors.ValidateDimension(fmt.Sprintf("height of stack %d", s), h, 0, tiers); err != nil {
			return nil, err
		}
		stacks[s] = make([]int, h)
		for t := range h {
			if stacks[s][t], err = next(fmt.Sprintf("stack %d tier %d", s, t+1)); err != nil {
				return nil, err
			}
		}
		total += h
	}

	if sc.Scan() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unexpected token %q after the last stack", sc.Text())
	}
	if total != nBlocks {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "header declares %d blocks but stacks hold %d", nBlocks, total)
	}
	return bay.New(tiers, stacks)
}

// ImportText reads a text instance from the file at path.
func ImportText(path string) (*bay.Instance, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadText(f)
}

type instanceJSON struct {
	Tiers  int     `json:"tiers"`
	Stacks [][]int `json:"stacks"`
}

// ReadJSON decodes a JSON instance from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*bay.Instance, error) {
	var data instanceJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode instance")
	}
	return bay.New(data.Tiers, data.Stacks)
}

// ImportJSON reads a JSON instance from the file at path.
func ImportJSON(path string) (*bay.Instance, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
