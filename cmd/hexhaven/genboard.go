package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hexhaven/hexhaven/internal/game"
	"github.com/hexhaven/hexhaven/internal/randutil"
)

// GenBoardCmd generates a board layout for inspection or client fixtures
type GenBoardCmd struct {
	Size string `default:"standard" enum:"standard,extended" help:"Board size (standard or extended)"`
	Seed *int64 `help:"Deterministic RNG seed (optional)"`
}

func (c *GenBoardCmd) Run() error {
	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	board, err := game.GenerateBoard(game.BoardSize(c.Size), randutil.New(seed))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
