package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/syntax"

	"github.com/revenium/gemini-meter/internal/config"
)

func TestSourceCommand(t *testing.T) {
	tests := []struct {
		name       string
		shell      ShellType
		configPath string
		want       string
	}{
		{
			name:       "Bash",
			shell:      ShellBash,
			configPath: "/home/u/.gemini/revenium.env",
			want: "# Source Revenium Gemini CLI metering config\n" +
				"if [ -f /home/u/.gemini/revenium.env ]; then\n" +
				"    source /home/u/.gemini/revenium.env\n" +
				"fi",
		},
		{
			name:       "Zsh",
			shell:      ShellZsh,
			configPath: "/home/u/.gemini/revenium.env",
			want: "# Source Revenium Gemini CLI metering config\n" +
				"if [ -f /home/u/.gemini/revenium.env ]; then\n" +
				"    source /home/u/.gemini/revenium.env\n" +
				"fi",
		},
		{
			name:       "Fish",
			shell:      ShellFish,
			configPath: "/home/u/.gemini/revenium.fish",
			want: "# Source Revenium Gemini CLI metering config\n" +
				"if test -f '/home/u/.gemini/revenium.fish'\n" +
				"    source '/home/u/.gemini/revenium.fish'\n" +
				"end",
		},
		{
			name:       "Bash path with shell characters",
			shell:      ShellBash,
			configPath: "/home/a \"b\" $x `y`/revenium.env",
			want: "# Source Revenium Gemini CLI metering config\n" +
				"if [ -f '/home/a \"b\" $x `y`/revenium.env' ]; then\n" +
				"    source '/home/a \"b\" $x `y`/revenium.env'\n" +
				"fi",
		},
		{
			name:       "Fish path with quote and backslash",
			shell:      ShellFish,
			configPath: `/home/o'k\d/revenium.fish`,
			want: "# Source Revenium Gemini CLI metering config\n" +
				`if test -f '/home/o\'k\\d/revenium.fish'` + "\n" +
				`    source '/home/o\'k\\d/revenium.fish'` + "\n" +
				"end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceCommand(tt.shell, tt.configPath))
		})
	}
}

// TestSourceCommand_NoExpansion parses the POSIX snippet for a hostile path
// and checks that nothing in it expands.
func TestSourceCommand_NoExpansion(t *testing.T) {
	path := "/home/x$(touch pwned)/`id`/\"$HOME\"; rm -rf ~/revenium.env"

	file, err := syntax.NewParser().Parse(strings.NewReader(SourceCommand(ShellZsh, path)), "")
	require.NoError(t, err)

	var expansions, sourced []string
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.ParamExp:
			expansions = append(expansions, n.Param.Value)
		case *syntax.CmdSubst:
			expansions = append(expansions, "command substitution")
		case *syntax.CallExpr:
			if len(n.Args) == 2 && n.Args[0].Lit() == "source" {
				for _, part := range n.Args[1].Parts {
					if sq, ok := part.(*syntax.SglQuoted); ok {
						sourced = append(sourced, sq.Value)
					}
				}
			}
		}
		return true
	})

	assert.Empty(t, expansions)
	assert.Equal(t, []string{path}, sourced)
}

func TestManagedBlock(t *testing.T) {
	block := ManagedBlock(ShellZsh, "/x/revenium.env")

	assert.True(t, strings.HasPrefix(block, MarkerStart+"\n"))
	assert.True(t, strings.HasSuffix(block, "\n"+MarkerEnd+"\n"))
	assert.Equal(t, 1, strings.Count(block, MarkerStart))
	assert.True(t, HasManagedBlock(block))
}

func TestConfig_ConfigPath(t *testing.T) {
	cfg := Config{ConfigDir: "/home/u/.gemini"}

	assert.Equal(t, "/home/u/.gemini/revenium.env", cfg.ConfigPath(ShellBash))
	assert.Equal(t, "/home/u/.gemini/revenium.env", cfg.ConfigPath(ShellZsh))
	assert.Equal(t, "/home/u/.gemini/revenium.fish", cfg.ConfigPath(ShellFish))
	assert.Equal(t, "/home/u/.gemini/revenium.env", cfg.ConfigPath(ShellUnknown))
}

func TestShellType_Dialect(t *testing.T) {
	assert.Equal(t, config.DialectFish, ShellFish.Dialect())
	assert.Equal(t, config.DialectPOSIX, ShellBash.Dialect())
	assert.Equal(t, config.DialectPOSIX, ShellZsh.Dialect())
	assert.Equal(t, config.DialectPOSIX, ShellUnknown.Dialect())
}
