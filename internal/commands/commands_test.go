package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/config"
)

const monzoJanuary = `Monzo Bank Limited
Account holder: Acme Widgets Ltd
Sort code: 04-00-04
Account number: 12345678
01/01/2024 - 31/01/2024
Opening balance: £100.00
Closing balance: £250.00
02/01/2024 Faster Payment ACME LTD 150.00 250.00
`

const monzoFebruary = `Monzo Bank Limited
Account holder: Acme Widgets Ltd
Sort code: 04-00-04
Account number: 12345678
01/02/2024 - 29/02/2024
Opening balance: £250.00
Closing balance: £200.00
05/02/2024 Card payment MONTHLY RENT -50.00 200.00
`

// monzoFebruaryShifted opens 10.00 above January's close but is internally
// consistent, so only the boundary check fires.
const monzoFebruaryShifted = `Monzo Bank Limited
Account holder: Acme Widgets Ltd
Sort code: 04-00-04
Account number: 12345678
01/02/2024 - 29/02/2024
Opening balance: £260.00
Closing balance: £210.00
05/02/2024 Card payment MONTHLY RENT -50.00 210.00
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeStatement(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeProjectConfig writes a ledgerstitch.yaml whose output and log paths
// all live under dir, so tests never touch the working directory.
func writeProjectConfig(t *testing.T, dir string) (cfgPath string, cfg *config.Config) {
	t.Helper()
	cfg = config.Default()
	cfg.Accounts = []config.BankAccount{
		{Identifier: "04-00-04 12345678", Name: "Acme Current", Bank: "Monzo", LastFour: "5678"},
	}
	cfg.Paths.OutputDir = filepath.Join(dir, "output")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")
	cfg.Paths.RulesFile = filepath.Join(dir, "rules.yaml")
	cfgPath = filepath.Join(dir, "ledgerstitch.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))
	return cfgPath, cfg
}
