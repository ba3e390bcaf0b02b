package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripValues exercises every character class the codecs must survive.
var roundTripValues = map[string]string{
	"PLAIN":       "value",
	"EMPTY":       "",
	"SPACES":      "  leading and trailing  ",
	"COMMAS":      "a,b,,c",
	"EQUALS":      "k=v==w",
	"SINGLE":      "it's O'Brien's",
	"ONLY_QUOTE":  "'",
	"DOUBLE":      `say "hi"`,
	"BACKSLASH":   `C:\path\to\`,
	"MIXED":       `\'mix'\\'`,
	"SHELL_CHARS": "$HOME `id` $(whoami) ; | & # * ?",
	"COMPOSITE":   "revenium.api_key=hak_x_y,organization.name=Acme%2C Inc.",
	"UNICODE":     "Zürich – café",
}

func TestDialect_RoundTrip(t *testing.T) {
	for _, d := range []Dialect{DialectPOSIX, DialectFish} {
		t.Run(d.String(), func(t *testing.T) {
			encoded := d.EncodeMap(roundTripValues)

			decoded, err := d.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, roundTripValues, decoded)
		})
	}
}

func TestDialect_Line(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		value   string
		want    string
	}{
		{name: "POSIX plain", dialect: DialectPOSIX, value: "Acme Corp", want: "export KEY='Acme Corp'"},
		{name: "POSIX quote", dialect: DialectPOSIX, value: "O'Brien", want: `export KEY='O'\''Brien'`},
		{name: "POSIX backslash kept", dialect: DialectPOSIX, value: `a\b`, want: `export KEY='a\b'`},
		{name: "Fish plain", dialect: DialectFish, value: "Acme Corp", want: "set -gx KEY 'Acme Corp'"},
		{name: "Fish quote", dialect: DialectFish, value: "O'Brien", want: `set -gx KEY 'O\'Brien'`},
		{name: "Fish backslash", dialect: DialectFish, value: `a\b`, want: `set -gx KEY 'a\\b'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.Line("KEY", tt.value))
		})
	}
}

func TestDecodePOSIX_HandWritten(t *testing.T) {
	content := `# comment line
   # indented comment

export GEMINI_TELEMETRY_ENABLED=true
export DOUBLE="a \"quoted\" \$value"
PLAIN_ASSIGN='no export'
export NAKED
FOO=bar some-command
if [ -n "$X" ]; then
    export NESTED='inside if'
fi
export EXPANDED="$HOME/path"
`
	vars, err := DialectPOSIX.Decode(content)
	require.NoError(t, err)

	assert.Equal(t, "true", vars["GEMINI_TELEMETRY_ENABLED"])
	assert.Equal(t, `a "quoted" $value`, vars["DOUBLE"])
	assert.Equal(t, "no export", vars["PLAIN_ASSIGN"])
	assert.Equal(t, "inside if", vars["NESTED"])
	assert.NotContains(t, vars, "NAKED")
	assert.NotContains(t, vars, "FOO", "prefix assignments only apply to their command")
	assert.NotContains(t, vars, "EXPANDED", "values needing expansion are not literal")
}

func TestDecodePOSIX_SyntaxError(t *testing.T) {
	_, err := DialectPOSIX.Decode("export BROKEN='unterminated\n")
	assert.Error(t, err)
}

func TestDecodeFish_HandWritten(t *testing.T) {
	content := `# fish config
set -gx GEMINI_TELEMETRY_ENABLED true
set -gx DOUBLE "a \"quoted\" \$value"
set -gx BARE value # trailing comment
set -gx   EXTRA_SPACES    'spaced'
set -x NOT_GLOBAL 'ignored'
echo hello
`
	vars, err := DialectFish.Decode(content)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"GEMINI_TELEMETRY_ENABLED": "true",
		"DOUBLE":                   `a "quoted" $value`,
		"BARE":                     "value",
		"EXTRA_SPACES":             "spaced",
	}, vars)
}

func TestDecodeFish_Unterminated(t *testing.T) {
	_, err := DialectFish.Decode("set -gx KEY 'open\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnterminatedQuote)
	assert.Contains(t, err.Error(), "line 1")
}

func TestDialect_Metadata(t *testing.T) {
	assert.Equal(t, ".env", DialectPOSIX.Extension())
	assert.Equal(t, ".fish", DialectFish.Extension())
	assert.Equal(t, DialectFish, DialectPOSIX.Other())
	assert.Equal(t, DialectPOSIX, DialectFish.Other())
	assert.Equal(t, "unknown", Dialect(42).String())
}
