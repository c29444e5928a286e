package game

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type gameEntry struct {
	Target  *uint64  `yaml:"target"`
	Numbers []uint64 `yaml:"numbers"`
}

// LoadGames reads a YAML list of games, for example:
//
//	- target: 508
//	  numbers: [6, 1, 7, 8, 9]
//	- target: 482
//	  numbers: [50, 25, 6, 5, 10]
func LoadGames(r io.Reader) ([]*Game, error) {
	var entries []gameEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding games: %w", err)
	}
	games := make([]*Game, 0, len(entries))
	for i, e := range entries {
		if e.Target == nil {
			return nil, fmt.Errorf("game %d: missing target", i+1)
		}
		if len(e.Numbers) == 0 {
			return nil, fmt.Errorf("game %d: %w", i+1, ErrNoNumbers)
		}
		games = append(games, New(*e.Target, e.Numbers))
	}
	return games, nil
}
