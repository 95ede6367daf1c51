// Package shell is an interactive shell for stepping through trials: load a
// game description, load or record a trial, move back and forth through it
// and inspect the state and its hashes.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/canonical"
	"github.com/domino14/boardstate/config"
	"github.com/domino14/boardstate/game"
	"github.com/domino14/boardstate/trial"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please load a game first with the `game` command")
	errQuit              = errors.New("sending quit signal")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// extractFields splits a line into a command, its arguments and its
// -name value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// Response is what a command shows the user.
type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	game   *game.Game
	ctx    *game.Context
	trial  *trial.Trial
	cursor *trial.Cursor
	hasher *canonical.Hasher
	cache  *canonical.Cache

	useCoords bool
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// NewShellController creates a shell reading from the terminal.
func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mboardstate>\033[0m ",
		HistoryFile:     "/tmp/boardstate-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	canonical.CreateGlobalCache(cfg)
	return &ShellController{
		out:       out,
		config:    cfg,
		cache:     canonical.GlobalCache,
		useCoords: true,
	}
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "help", "h", "?":
		return sc.help(cmd)
	case "game", "g":
		return sc.loadGame(cmd)
	case "new":
		return sc.newTrial(cmd)
	case "load", "l":
		return sc.loadTrial(cmd)
	case "save":
		return sc.saveTrial(cmd)
	case "next", "n":
		return sc.step(cmd, 1)
	case "prev", "p":
		return sc.step(cmd, -1)
	case "goto", "turn":
		return sc.seek(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "list", "ls":
		return sc.list(cmd)
	case "apply", "a":
		return sc.apply(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "hash":
		return sc.hash(cmd)
	case "fingerprint", "fp":
		return sc.fingerprint(cmd)
	case "concepts":
		return sc.concepts(cmd)
	case "replay":
		return sc.replay(cmd)
	case "verify":
		return sc.verify(cmd)
	case "set":
		return sc.set(cmd)
	case "exit", "quit", "bye":
		return nil, errQuit
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs one line of commands, as given on the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	for _, l := range strings.Split(line, ";") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if !sc.run(l, sig) {
			return
		}
	}
}

// run handles one line and reports whether the shell should keep going.
func (sc *ShellController) run(line string, sig chan os.Signal) bool {
	resp, err := sc.handle(line)
	switch {
	case errors.Is(err, errQuit):
		sig <- syscall.SIGINT
		return false
	case errors.Is(err, errNoData):
	case err != nil:
		sc.showError(err)
	case resp != nil:
		sc.showMessage(resp.message)
	}
	return true
}

// Loop reads commands until the user quits.
func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if !sc.run(strings.TrimSpace(line), sig) {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup logs cache statistics before the process exits.
func (sc *ShellController) Cleanup() {
	if sc.cache != nil {
		lookups, hits := sc.cache.Stats()
		log.Info().Uint64("lookups", lookups).Uint64("hits", hits).
			Int("entries", sc.cache.Len()).Msg("canonical-cache")
	}
}
