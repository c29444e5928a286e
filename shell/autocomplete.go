package shell

import (
	"io/fs"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/samber/lo"
)

// commandOptions maps every command to the options it accepts.
var commandOptions = map[string][]string{
	"solve":   {"-threads"},
	"deal":    {"-large"},
	"load":    {"-threads"},
	"show":    nil,
	"history": {"-n"},
	"set":     nil,
	"help":    nil,
	"exit":    nil,
}

var setItems = []string{"threads"}

var completer = newCompleter()

func newCompleter() *readline.PrefixCompleter {
	names := lo.Keys(commandOptions)
	slices.Sort(names)

	items := lo.Map(names, func(name string, _ int) readline.PrefixCompleterInterface {
		var children []readline.PrefixCompleterInterface
		switch name {
		case "set":
			children = lo.Map(setItems, pcItem)
		case "help":
			children = lo.Map(helpTopics(), pcItem)
		default:
			children = lo.Map(commandOptions[name], pcItem)
		}
		return readline.PcItem(name, children...)
	})
	return readline.NewPrefixCompleter(items...)
}

func pcItem(s string, _ int) readline.PrefixCompleterInterface {
	return readline.PcItem(s)
}

// helpTopics lists the commands that have their own help text.
func helpTopics() []string {
	entries, err := helptext.ReadDir("helptext")
	if err != nil {
		return nil
	}
	topics := lo.FilterMap(entries, func(e fs.DirEntry, _ int) (string, bool) {
		name := strings.TrimSuffix(e.Name(), ".txt")
		return name, name != "usage"
	})
	slices.Sort(topics)
	return topics
}
