package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/boardstate/action"
	"github.com/domino14/boardstate/config"
	"github.com/domino14/boardstate/gamedef"
	"github.com/domino14/boardstate/trial"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"replay": {Options: []string{"-threads"}},
	"verify": {Options: []string{"-threads"}},
	"apply":  {Options: []string{"-decision"}},
	"set":    {Args: []string{"coords"}},
	"goto":   {Args: []string{"start", "end"}},
	"help":   {Args: []string{"apply", "replay", "verify", "hash"}},
}

var commandNames = []string{
	"help", "game", "new", "load", "save", "n", "next", "p", "prev", "goto",
	"s", "show", "list", "apply", "undo", "hash", "fingerprint", "concepts",
	"replay", "verify", "set", "exit",
}

var boolValues = []string{"true", "false"}

// actionPrefixes starts every action kind in trial format.
func actionPrefixes() []string {
	out := make([]string, 0, action.NumKinds)
	for k := range action.NumKinds {
		out = append(out, "["+action.Kind(k).String()+":")
	}
	return out
}

// filesIn lists the names of the files in dir with the extension, which
// is stripped.
func filesIn(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ext {
			out = append(out, strings.TrimSuffix(e.Name(), ext))
		}
	}
	return out
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-decision", lastCompleteField == "coords":
			completions = boolValues
		case cmdName == "game" || cmdName == "g":
			completions = filesIn(c.sc.config.GetString(config.ConfigGameDir), gamedef.Extension)
		case cmdName == "load" || cmdName == "l" || cmdName == "save":
			completions = filesIn(c.sc.config.GetString(config.ConfigTrialDir), trial.Extension)
		case (cmdName == "apply" || cmdName == "a") && !strings.HasPrefix(prefix, "-"):
			completions = actionPrefixes()
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}
	return matches, len(prefix)
}
