package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tasknest/internal/exitcode"
	"tasknest/internal/notes"
	"tasknest/internal/output"
	"tasknest/internal/storage"
)

func init() {
	Register(&EntriesCmd{
		name:     "note",
		aliases:  []string{"notes"},
		noun:     "note",
		title:    "Notes",
		synopsis: "Manage notes",
		open:     notes.OpenNotes,
	})
	Register(&EntriesCmd{
		name:     "journal",
		noun:     "journal entry",
		title:    "Journal",
		synopsis: "Manage journal entries",
		open:     notes.OpenJournal,
	})
}

// EntriesCmd manages one of the local text collections (notes or journal).
type EntriesCmd struct {
	name     string
	aliases  []string
	noun     string
	title    string
	synopsis string
	open     func(storage.Store, *zap.Logger) (*notes.Collection, error)
}

func (c *EntriesCmd) Name() string      { return c.name }
func (c *EntriesCmd) Aliases() []string { return c.aliases }
func (c *EntriesCmd) Synopsis() string  { return c.synopsis }
func (c *EntriesCmd) Usage() string {
	return fmt.Sprintf("tasknest %s [add <text...> | ls | edit [--keep-position] <ref> <text...> | rm <ref>]", c.name)
}
func (c *EntriesCmd) NeedsAuth() bool { return false }

func (c *EntriesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EntriesCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	coll, err := c.open(env.Store, env.logger())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	sub, rest := "ls", []string(nil)
	if len(args) > 0 {
		sub, rest = args[0], args[1:]
	}
	switch sub {
	case "ls", "list":
		return c.list(env, coll, out)
	case "add":
		return c.add(env, coll, rest, out, errOut)
	case "edit":
		return c.edit(env, coll, rest, out, errOut)
	case "rm", "delete":
		return c.remove(env, coll, rest, out, errOut)
	default:
		return usageError(errOut, "unknown %s subcommand: %s", c.name, sub)
	}
}

func (c *EntriesCmd) list(env *Env, coll *notes.Collection, out io.Writer) int {
	entries := coll.Entries()
	if len(entries) == 0 {
		if !env.quiet() {
			fmt.Fprintf(out, "no %s found\n", plural(c.noun))
		}
		return exitcode.Success
	}
	th := theme(env, out)
	if !env.quiet() {
		output.FormatHeader(out, th, c.title)
	}
	output.FormatEntries(out, th, entries)
	return exitcode.Success
}

func (c *EntriesCmd) add(env *Env, coll *notes.Collection, args []string, out, errOut io.Writer) int {
	if _, err := coll.Add(strings.Join(args, " ")); err != nil {
		return report(errOut, err)
	}
	ok(env, out)
	return exitcode.Success
}

// edit replaces an entry's text. By default the entry is removed and re-added
// at the end; --keep-position rewrites it in place.
func (c *EntriesCmd) edit(env *Env, coll *notes.Collection, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	keep := fs.Bool("keep-position", false, "")
	if err := fs.Parse(args); err != nil {
		return usageError(errOut, "%v", err)
	}
	args = fs.Args()
	if len(args) == 0 {
		return usageError(errOut, "%s reference required", c.noun)
	}
	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		return usageError(errOut, "%v", notes.ErrEmptyText)
	}

	e, err := resolveEntry(coll, args[0])
	if err != nil {
		return report(errOut, err)
	}
	if *keep {
		_, err = coll.Replace(e.ID, text)
	} else {
		_, err = coll.BeginEdit(e.ID)
		if err == nil {
			_, err = coll.Save(text)
		}
	}
	if err != nil {
		return report(errOut, err)
	}
	ok(env, out)
	return exitcode.Success
}

func (c *EntriesCmd) remove(env *Env, coll *notes.Collection, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "%s reference required", c.noun)
	}
	e, err := resolveEntry(coll, args[0])
	if err != nil {
		return report(errOut, err)
	}
	if err := coll.Delete(e.ID); err != nil {
		return report(errOut, err)
	}
	ok(env, out)
	return exitcode.Success
}

// resolveEntry accepts an ID prefix or "#N" for the N-th listed entry.
func resolveEntry(coll *notes.Collection, ref string) (notes.Entry, error) {
	if pos, found := strings.CutPrefix(ref, "#"); found {
		n, err := strconv.Atoi(pos)
		entries := coll.Entries()
		if err != nil || n < 1 || n > len(entries) {
			return notes.Entry{}, fmt.Errorf("%w: %s", notes.ErrNotFound, ref)
		}
		return entries[n-1], nil
	}
	return coll.Resolve(ref)
}

func plural(noun string) string {
	if strings.HasSuffix(noun, "y") {
		return strings.TrimSuffix(noun, "y") + "ies"
	}
	return noun + "s"
}
