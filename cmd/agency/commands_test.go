package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgencyEngine/internal/model"
	"AgencyEngine/internal/state"
)

type cli struct {
	cfgPath   string
	stateFile string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	c := &cli{cfgPath: filepath.Join(dir, "config.yaml"), stateFile: filepath.Join(dir, "state.json")}
	yaml := fmt.Sprintf(`game:
  start_date: "2025-07-01"
  starting_balance: 10000000000
  seed: 7
  initial_players: 5
database:
  sqlite_path: %q
state_file: %q
log:
  level: error
`, filepath.Join(dir, "agency.db"), c.stateFile)
	require.NoError(t, os.WriteFile(c.cfgPath, []byte(yaml), 0o644))
	return c
}

func (c *cli) run(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd(c.cfgPath)
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func (c *cli) saved(t *testing.T) *state.Snapshot {
	t.Helper()
	snap, err := state.Load(c.stateFile)
	require.NoError(t, err)
	require.NotNil(t, snap)
	return snap
}

var parenID = regexp.MustCompile(`\((\S+)\)`)

func TestCLI_PauseBlocksSimulateUntilResumed(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("pause")
	require.NoError(t, err)
	assert.True(t, c.saved(t).Clock.IsPaused)

	_, err = c.run("simulate", "--days", "1", "--quiet")
	require.ErrorContains(t, err, "paused")
	assert.Equal(t, "2025-07-01", c.saved(t).Clock.CurrentDate.Format("2006-01-02"))

	_, err = c.run("resume")
	require.NoError(t, err)
	assert.False(t, c.saved(t).Clock.IsPaused)

	_, err = c.run("simulate", "--days", "1", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-02", c.saved(t).Clock.CurrentDate.Format("2006-01-02"))
}

func TestCLI_ScoutAndEventCommands(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("office", "--level", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "office level 3")
	assert.Equal(t, 3, c.saved(t).Scouting.OfficeLevel)

	out, err = c.run("hire", "--name", "Ana Silva", "--level", "2")
	require.NoError(t, err)
	m := parenID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	scoutID := m[1]

	out, err = c.run("event")
	require.NoError(t, err)
	assert.Contains(t, out, "No pending events")

	_, err = c.run("event", "--ignore", "event_missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = c.run("event", "--resolve", "event_missing")
	assert.ErrorContains(t, err, "--option")

	_, err = c.run("dismiss", "--scout", scoutID)
	require.NoError(t, err)
	assert.Empty(t, c.saved(t).Scouting.Scouts)

	_, err = c.run("dismiss", "--scout", scoutID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCLI_OfferCondition(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("pause")
	require.NoError(t, err)
	p := c.saved(t).Players[0]

	out, err := c.run("offer", "--player", p.ID, "--team", "club_cli", "--amount", fmt.Sprint(p.Value*2))
	require.NoError(t, err)
	offerID := regexp.MustCompile(`offer (\S+) created`).FindStringSubmatch(out)
	require.Len(t, offerID, 2, out)

	out, err = c.run("offer", "--action", "condition", "--offer", offerID[1], "--type", "goals", "--threshold", "10", "--bonus", "50000")
	require.NoError(t, err)
	assert.Contains(t, out, "now carries 1 condition(s)")

	offers := c.saved(t).Transfers.Offers
	require.Len(t, offers, 1)
	assert.Equal(t, []model.TransferCondition{{Type: "goals", Threshold: 10, Bonus: 50_000}}, offers[0].Conditions)

	_, err = c.run("offer", "--action", "condition", "--offer", offerID[1], "--threshold", "10")
	assert.Error(t, err)
}

func TestCLI_ReportShowsHistoryAndFallsBackToArchive(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("hire", "--name", "Ana Silva")
	require.NoError(t, err)
	_, err = c.run("simulate", "--days", "3", "--quiet")
	require.NoError(t, err)

	out, err := c.run("report", "--period", "weekly")
	require.NoError(t, err)
	assert.Contains(t, out, "Agency status | 2025-07-04")
	assert.Contains(t, out, "Recorded history")
	assert.Contains(t, out, "SCOUT_HIRED")

	require.NoError(t, os.Remove(c.stateFile))
	out, err = c.run("report")
	require.NoError(t, err)
	assert.Contains(t, out, "Agency status | 2025-07-04")
	assert.Contains(t, out, "Scouts:           1")
}
