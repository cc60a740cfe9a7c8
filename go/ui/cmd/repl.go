package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"

	"github.com/pescope/pescope/go/models"
	"github.com/pescope/pescope/go/ui"
)

type Repl struct {
	ctx *Context
	rl  *readline.Instance
	// name is shown in the prompt
	name string
}

// HistoryPath returns the readline history file in the user cache dir, or ""
// if the directory cannot be created.
func HistoryPath(kind string) string {
	configDirs := configdir.New("pescope", kind)
	cacheDir := configDirs.QueryCacheFolder()
	if err := cacheDir.MkdirAll(); err != nil {
		return ""
	}
	return filepath.Join(cacheDir.Path, "history")
}

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range Names() {
		var sub []readline.PrefixCompleterInterface
		switch name {
		case "show", "hide":
			for _, v := range models.Views {
				sub = append(sub, readline.PcItem(v))
			}
		case "cp":
			for _, cp := range ui.Codepages() {
				sub = append(sub, readline.PcItem(cp))
			}
		}
		items = append(items, readline.PcItem(name, sub...))
	}
	return readline.NewPrefixCompleter(items...)
}

// NewRepl opens a line editor over stdin. name labels the prompt.
func NewRepl(src ui.Source, c *models.Config, name string) (*Repl, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf("%s> ", name),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryFile:     HistoryPath("repl"),
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "readline failed")
	}
	ctx := &Context{Writer: rl.Stdout(), Src: src, Config: c}
	return &Repl{ctx: ctx, rl: rl, name: name}, nil
}

// Run reads commands until EOF or "quit".
func (r *Repl) Run() error {
	defer r.Close()
	r.ctx.Printf("pescope: %s (%d bytes). Type \"help\" for commands.\n", r.name, r.ctx.Src.Size())
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrap(err, "readline failed")
		}
		line = strings.TrimSpace(line)
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := Run(r.ctx, line); err != nil {
			return err
		}
	}
}

func (r *Repl) Close() {
	r.rl.Close()
}
