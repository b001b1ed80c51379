package bay_test

import (
	"fmt"

	"github.com/matzehuels/relocator/pkg/bay"
)

func ExampleNew() {
	inst, err := bay.New(2, [][]int{{1, 2}, {}})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("stacks:", inst.NumStacks())
	fmt.Println("blocks:", inst.NumBlocks())
	// Output:
	// stacks: 2
	// blocks: 2
}

func ExampleMoves_String() {
	plan := bay.Moves{
		{Priority: 4, Source: 0, Dest: 2},
		{Priority: 3, Source: 1, Dest: 0},
	}
	fmt.Println(plan)
	// Output:
	// [4: 0 -> 2, 3: 1 -> 0]
}
