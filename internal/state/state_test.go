package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgencyEngine/internal/ids"
	"AgencyEngine/internal/model"
)

func sample() *Snapshot {
	paris := time.FixedZone("CEST", 2*3600)
	day := time.Date(2025, 7, 6, 0, 0, 0, 0, time.UTC)
	return &Snapshot{
		Clock:  model.GameClock{CurrentDate: day, GameSpeed: 1, CurrentWeek: 0, TransferWindowOpen: true},
		Ledger: model.LedgerState{Treasury: model.Treasury{Balance: 540_000, LastUpdate: day}},
		Transfers: model.TransferBook{Offers: []model.TransferOffer{{
			ID:        "offer_1",
			Status:    model.OfferPending,
			CreatedAt: time.Date(2025, 7, 1, 2, 0, 0, 0, paris),
			ExpiresAt: time.Date(2025, 7, 8, 2, 0, 0, 0, paris),
		}}},
		Scouting: model.ScoutingState{
			OfficeLevel:    1,
			LastEventRolls: map[string]time.Time{"scout_1|FRA": day.In(paris)},
		},
		Players: []model.Player{{ID: "player_1", Attributes: map[string]int{"pace": 80, "finishing": 70}}},
		RNG:     []byte{1, 2, 3},
		IDs:     ids.Sequence{Namespace: "ns", Counter: 9},
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	in := sample()
	b, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, Version, out.Version)
	assert.Equal(t, int64(540_000), out.Ledger.Treasury.Balance)
	assert.Equal(t, uint64(9), out.IDs.Counter)
	assert.Equal(t, []byte{1, 2, 3}, out.RNG)
	assert.Equal(t, time.UTC, out.Transfers.Offers[0].CreatedAt.Location())
	assert.True(t, out.Transfers.Offers[0].CreatedAt.Equal(in.Transfers.Offers[0].CreatedAt))
	assert.Equal(t, time.UTC, out.Scouting.LastEventRolls["scout_1|FRA"].Location())
}

func TestEncode_Stable(t *testing.T) {
	a, err := Encode(sample())
	require.NoError(t, err)
	b, err := Encode(sample())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestClone_Detached(t *testing.T) {
	in := sample()
	out, err := Clone(in)
	require.NoError(t, err)

	out.Players[0].Attributes["pace"] = 1
	out.Transfers.Offers[0].Status = model.OfferExpired
	assert.Equal(t, 80, in.Players[0].Attributes["pace"])
	assert.Equal(t, model.OfferPending, in.Transfers.Offers[0].Status)
}

func TestLoad_VersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99}`), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestFile_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	missing, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, Save(path, sample()))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "offer_1", loaded.Transfers.Offers[0].ID)
	assert.Equal(t, time.UTC, loaded.Transfers.Offers[0].ExpiresAt.Location())
	assert.Equal(t, 70, loaded.Players[0].Attributes["finishing"])
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
