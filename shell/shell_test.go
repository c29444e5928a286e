package shell

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/countdown/config"
	"github.com/domino14/countdown/game"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"solve 508 6 1 7 8 9",
			&shellcmd{"solve", []string{"508", "6", "1", "7", "8", "9"}, CmdOptions{}},
			nil},
		{"solve 508 6 1 -threads 4 7",
			&shellcmd{"solve", []string{"508", "6", "1", "7"}, CmdOptions{"threads": "4"}},
			nil},
		{"deal -large 2",
			&shellcmd{"deal", nil, CmdOptions{"large": "2"}},
			nil},
		{"solve 10 -3",
			&shellcmd{"solve", []string{"10", "-3"}, CmdOptions{}},
			nil},
		{"load 'my games.yaml'",
			&shellcmd{"load", []string{"my games.yaml"}, CmdOptions{}},
			nil},
		{"deal -large",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testController() (*ShellController, *bytes.Buffer) {
	var buf bytes.Buffer
	return newController(config.DefaultConfig(), &buf), &buf
}

func TestSolveCommand(t *testing.T) {
	is := is.New(t)
	sc, buf := testController()
	sc.Execute(nil, "solve 508 6 1 7 8 9")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	is.Equal(lines[0], "target 508, numbers 1 6 7 8 9")
	is.True(strings.Contains(out, "WON!!! "))
	is.True(strings.HasPrefix(lines[len(lines)-1], "Searched "))
	is.True(strings.HasPrefix(lines[len(lines)-2], "Solutions found: "))
	is.True(!strings.Contains(out, "Solutions found: 0"))
	is.Equal(sc.curGame.Target, uint64(508))
}

func TestSolveCurrentGame(t *testing.T) {
	is := is.New(t)
	sc, buf := testController()
	_, err := sc.dispatch(&shellcmd{cmd: "solve", options: CmdOptions{}})
	is.Equal(err, errNoGame)

	sc.curGame = game.New(482, []uint64{50, 25, 6, 5, 10})
	resp, err := sc.dispatch(&shellcmd{cmd: "solve", options: CmdOptions{"threads": "2"}})
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Searched "))
	is.True(strings.Contains(buf.String(), "Solutions found: 0\n"))
	is.Equal(sc.solver.Threads(), 2)
}

func TestSolveBadInput(t *testing.T) {
	is := is.New(t)
	sc, buf := testController()
	sc.Execute(nil, "solve 10 -3")
	is.True(strings.HasPrefix(buf.String(), "Error: "))

	_, err := sc.dispatch(&shellcmd{cmd: "solve", args: []string{"10", "x"}, options: CmdOptions{}})
	is.True(errors.Is(err, game.ErrBadNumber))

	_, err = sc.dispatch(&shellcmd{cmd: "solve", args: []string{"10", "5"}, options: CmdOptions{"threads": "0"}})
	is.True(err != nil)
}

func TestDealAndShow(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := sc.dispatch(&shellcmd{cmd: "show", options: CmdOptions{}})
	is.Equal(err, errNoGame)

	resp, err := sc.dispatch(&shellcmd{cmd: "deal", options: CmdOptions{"large": "4"}})
	is.NoErr(err)
	is.True(sc.curGame != nil)
	is.Equal(len(sc.curGame.Numbers.Values()), game.NumbersPerGame)

	shown, err := sc.dispatch(&shellcmd{cmd: "show", options: CmdOptions{}})
	is.NoErr(err)
	is.Equal(shown.message, resp.message)

	_, err = sc.dispatch(&shellcmd{cmd: "deal", options: CmdOptions{"large": "9"}})
	is.True(err != nil)
}

func TestLoadCommand(t *testing.T) {
	is := is.New(t)
	type entry struct {
		Target  uint64   `yaml:"target"`
		Numbers []uint64 `yaml:"numbers"`
	}
	data, err := yaml.Marshal([]entry{
		{508, []uint64{6, 1, 7, 8, 9}},
		{482, []uint64{50, 25, 6, 5, 10}},
	})
	is.NoErr(err)
	path := filepath.Join(t.TempDir(), "games.yaml")
	is.NoErr(os.WriteFile(path, data, 0644))

	sc, buf := testController()
	resp, err := sc.dispatch(&shellcmd{cmd: "load", args: []string{path}, options: CmdOptions{}})
	is.NoErr(err)
	is.Equal(resp.message, "Solved 1 of 2 games")
	summaries := lo.Filter(strings.Split(buf.String(), "\n"), func(l string, _ int) bool {
		return strings.HasPrefix(l, "Solutions found: ")
	})
	is.Equal(len(summaries), 2)

	_, err = sc.dispatch(&shellcmd{cmd: "load", args: []string{filepath.Join(t.TempDir(), "nope.yaml")}, options: CmdOptions{}})
	is.True(err != nil)
}

func TestLogStreamConfig(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "events.yaml")
	sc, _ := testController()
	sc.config.Set(config.ConfigLogStream, path)
	sc.Execute(nil, "solve 10 5 2")

	data, err := os.ReadFile(path)
	is.NoErr(err)
	var events []map[string]any
	is.NoErr(yaml.Unmarshal(data, &events))
	is.Equal(lo.LastOrEmpty(events)["kind"], "finished")
}

func TestSetAndHelp(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	resp, err := sc.dispatch(&shellcmd{cmd: "set", args: []string{"threads", "3"}, options: CmdOptions{}})
	is.NoErr(err)
	is.Equal(resp.message, "set threads to 3")
	resp, err = sc.dispatch(&shellcmd{cmd: "set", options: CmdOptions{}})
	is.NoErr(err)
	is.Equal(resp.message, "threads: 3")
	_, err = sc.dispatch(&shellcmd{cmd: "set", args: []string{"threads", "zero"}, options: CmdOptions{}})
	is.True(err != nil)

	resp, err = sc.dispatch(&shellcmd{cmd: "help", options: CmdOptions{}})
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Commands:"))
	resp, err = sc.dispatch(&shellcmd{cmd: "help", args: []string{"solve"}, options: CmdOptions{}})
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "WON!!!"))
	_, err = sc.dispatch(&shellcmd{cmd: "help", args: []string{"nonsense"}, options: CmdOptions{}})
	is.True(err != nil)

	_, err = sc.dispatch(&shellcmd{cmd: "frobnicate", options: CmdOptions{}})
	is.True(errors.Is(err, errUnknownCommand))
	_, err = sc.dispatch(&shellcmd{cmd: "exit", options: CmdOptions{}})
	is.Equal(err, errExit)
}

func TestHistory(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := sc.dispatch(&shellcmd{cmd: "history", options: CmdOptions{}})
	is.Equal(err, errNoResultsDB)

	sc.config.Set(config.ConfigResultsDB, filepath.Join(t.TempDir(), "results.db"))
	defer sc.Cleanup()
	resp, err := sc.dispatch(&shellcmd{cmd: "history", options: CmdOptions{}})
	is.NoErr(err)
	is.Equal(resp.message, "No solves recorded")

	sc.Execute(nil, "solve 10 5 2")
	sc.Execute(nil, "solve 482 50 25 6 5 10")
	resp, err = sc.dispatch(&shellcmd{cmd: "history", options: CmdOptions{"n": "1"}})
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "target 482, numbers 5 6 10 25 50: 0 solutions"))
	is.Equal(strings.Count(resp.message, "\n"), 0)

	resp, err = sc.dispatch(&shellcmd{cmd: "history", args: []string{"10"}, options: CmdOptions{}})
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "target 10, numbers 2 5: 1 solutions, best distance 0"))
}

func TestHelpTopics(t *testing.T) {
	is := is.New(t)
	is.Equal(helpTopics(), []string{"deal", "history", "load", "solve"})
	is.True(completer != nil)
}
