package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// completionMeta holds completion hints for a flag. Names, shorthands and
// descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file extension filter, e.g. "yaml"
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"format":      {Values: []string{"html", "docx", "latex", "pdf", "json"}},
	"page-size":   {Values: []string{"letter", "a4", "legal"}},
	"orientation": {Values: []string{"portrait", "landscape"}},
	"highlight":   {Values: []string{"github", "monokai", "dracula", "solarized-light"}},

	"config": {FileGlob: "yaml"},
	"style":  {FileGlob: "css"},
	"css":    {FileGlob: "css"},

	"output":     {IsDir: true},
	"images":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long  string
	Short string
	Desc  string
	Bool  bool
	Meta  completionMeta
}

// convertFlagDefs extracts flag definitions from the convert FlagSet, so
// completion never drifts from parsing.
func convertFlagDefs() []flagDef {
	var defs []flagDef
	newConvertFlagSet(&convertFlags{}).VisitAll(func(f *flag.Flag) {
		defs = append(defs, flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
			Bool:  f.Value.Type() == "bool",
			Meta:  flagCompletionMeta[f.Name],
		})
	})
	return defs
}

// commandNames lists subcommands in display order.
var commandNames = []string{"convert", "doctor", "completion", "version", "help"}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashCompletion(convertFlagDefs())
	case ShellZsh:
		script = zshCompletion(convertFlagDefs())
	case ShellFish:
		script = fishCompletion(convertFlagDefs())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

func bashCompletion(defs []flagDef) string {
	var opts, cases strings.Builder
	for _, d := range defs {
		opts.WriteString(" --" + d.Long)
		if d.Short != "" {
			opts.WriteString(" -" + d.Short)
		}
		names := "--" + d.Long
		if d.Short != "" {
			names += "|-" + d.Short
		}
		switch {
		case len(d.Meta.Values) > 0:
			fmt.Fprintf(&cases, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", names, strings.Join(d.Meta.Values, " "))
		case d.Meta.FileGlob != "":
			fmt.Fprintf(&cases, "        %s) COMPREPLY=($(compgen -f -X '!*.%s' -- \"$cur\")); return ;;\n", names, d.Meta.FileGlob)
		case d.Meta.IsDir:
			fmt.Fprintf(&cases, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", names)
		}
	}

	var b strings.Builder
	b.WriteString("# bash completion for docexport\n")
	b.WriteString("_docexport() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")
	b.WriteString("    convert)\n")
	b.WriteString("        case \"$prev\" in\n")
	b.WriteString(cases.String())
	b.WriteString("        esac\n")
	b.WriteString("        if [[ $cur == -* ]]; then\n")
	fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.TrimSpace(opts.String()))
	b.WriteString("        else\n")
	b.WriteString("            COMPREPLY=($(compgen -f -- \"$cur\"))\n")
	b.WriteString("        fi\n")
	b.WriteString("        ;;\n")
	b.WriteString("    completion)\n")
	b.WriteString("        COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\"))\n")
	b.WriteString("        ;;\n")
	b.WriteString("    help)\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames, " "))
	b.WriteString("        ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _docexport docexport\n")
	return b.String()
}

func zshCompletion(defs []flagDef) string {
	var b strings.Builder
	b.WriteString("#compdef docexport\n\n")
	b.WriteString("_docexport_convert() {\n")
	b.WriteString("    _arguments \\\n")
	for _, d := range defs {
		desc := zshEscape(d.Desc)
		action := ""
		switch {
		case d.Bool:
		case len(d.Meta.Values) > 0:
			action = fmt.Sprintf(":value:(%s)", strings.Join(d.Meta.Values, " "))
		case d.Meta.FileGlob != "":
			action = fmt.Sprintf(":file:_files -g '*.%s'", d.Meta.FileGlob)
		case d.Meta.IsDir:
			action = ":directory:_files -/"
		default:
			action = ":value: "
		}
		if d.Short != "" {
			fmt.Fprintf(&b, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", d.Short, d.Long, d.Short, d.Long, desc, action)
		} else {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", d.Long, desc, action)
		}
	}
	b.WriteString("        '*:input:_files -g \"*.(json|md|markdown)\"'\n")
	b.WriteString("}\n\n")
	b.WriteString("_docexport() {\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	fmt.Fprintf(&b, "        compadd %s\n", strings.Join(commandNames, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    case $words[2] in\n")
	b.WriteString("    convert) shift words; (( CURRENT-- )); _docexport_convert ;;\n")
	b.WriteString("    completion) compadd bash zsh fish ;;\n")
	fmt.Fprintf(&b, "    help) compadd %s ;;\n", strings.Join(commandNames, " "))
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _docexport docexport\n")
	return b.String()
}

func fishCompletion(defs []flagDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for docexport\n")
	fmt.Fprintf(&b, "complete -c docexport -f -n '__fish_use_subcommand' -a '%s'\n", strings.Join(commandNames, " "))
	b.WriteString("complete -c docexport -f -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'\n")
	for _, d := range defs {
		line := "complete -c docexport -n '__fish_seen_subcommand_from convert' -l " + d.Long
		if d.Short != "" {
			line += " -s " + d.Short
		}
		switch {
		case d.Bool:
		case len(d.Meta.Values) > 0:
			line += fmt.Sprintf(" -x -a '%s'", strings.Join(d.Meta.Values, " "))
		case d.Meta.IsDir:
			line += " -x -a '(__fish_complete_directories)'"
		default:
			line += " -r"
		}
		line += fmt.Sprintf(" -d '%s'", strings.ReplaceAll(d.Desc, "'", `\'`))
		b.WriteString(line + "\n")
	}
	return b.String()
}

// zshEscape escapes characters _arguments treats specially in descriptions.
func zshEscape(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`, ":", `\:`, "'", `'\''`).Replace(s)
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docexport completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(docexport completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(docexport completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    docexport completion fish > ~/.config/fish/completions/docexport.fish")
}
