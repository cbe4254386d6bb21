package lineup_test

import (
	"encoding/json"
	"testing"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/lineup"
	"github.com/jrsteele09/squadhub/teams"
	"github.com/stretchr/testify/require"
)

func TestFormations(t *testing.T) {
	keys := lineup.Formations()
	require.Len(t, keys, 6)
	for _, k := range keys {
		t.Run(string(k), func(t *testing.T) {
			slots, ok := lineup.Slots(k)
			require.True(t, ok)
			require.Len(t, slots, 11)
			require.Equal(t, "GK", slots[0].ID)

			seen := map[string]bool{}
			for _, s := range slots {
				require.False(t, seen[s.ID], "duplicate slot %s", s.ID)
				seen[s.ID] = true
				require.True(t, s.Line.Valid())
				require.True(t, s.X >= 0 && s.X <= 1 && s.Y >= 0 && s.Y <= 1)
			}
		})
	}
	_, ok := lineup.Slots("2-3-5")
	require.False(t, ok)
}

func TestBoard_Assign(t *testing.T) {
	b := lineup.NewBoard()
	require.Equal(t, lineup.DefaultFormation, b.Formation())

	require.NoError(t, b.Assign(10, "GK"))
	require.NoError(t, b.Assign(11, "ST"))

	t.Run("moving a player vacates the old slot", func(t *testing.T) {
		require.NoError(t, b.Assign(11, "LW"))
		_, ok := b.PlayerAt("ST")
		require.False(t, ok)
		id, ok := b.PlayerAt("LW")
		require.True(t, ok)
		require.Equal(t, int64(11), id)
	})

	t.Run("taking an occupied slot benches its holder", func(t *testing.T) {
		require.NoError(t, b.Assign(12, "LW"))
		squad := []teams.Member{{ID: 10}, {ID: 11}, {ID: 12}}
		bench := b.Bench(squad)
		require.Len(t, bench, 1)
		require.Equal(t, int64(11), bench[0].ID)
	})

	t.Run("unknown slot", func(t *testing.T) {
		require.ErrorIs(t, b.Assign(13, "LWB"), apperrors.ErrUnknownSlot)
	})

	t.Run("clear", func(t *testing.T) {
		b.ClearSlot("GK")
		_, ok := b.PlayerAt("GK")
		require.False(t, ok)
		b.ClearAll()
		require.Len(t, b.Bench([]teams.Member{{ID: 10}, {ID: 12}}), 2)
	})
}

func TestBoard_SetFormation(t *testing.T) {
	b := lineup.NewBoard()
	require.NoError(t, b.Assign(1, "GK"))
	require.NoError(t, b.Assign(2, "CDM"))
	require.NoError(t, b.Assign(3, "LW"))

	require.NoError(t, b.SetFormation(lineup.Formation4141))
	id, ok := b.PlayerAt("GK")
	require.True(t, ok)
	require.Equal(t, int64(1), id)
	id, ok = b.PlayerAt("CDM")
	require.True(t, ok)
	require.Equal(t, int64(2), id)
	_, ok = b.PlayerAt("LW")
	require.False(t, ok)

	require.ErrorIs(t, b.SetFormation("1-1-8"), apperrors.ErrUnknownFormation)
	require.Equal(t, lineup.Formation4141, b.Formation())
}

func TestBoard_Payload(t *testing.T) {
	b := lineup.NewBoard()
	require.NoError(t, b.SetFormation(lineup.Formation442))
	require.NoError(t, b.Assign(7, "RM"))

	p := b.Payload(3)
	require.Len(t, p.Assignments, 11)
	require.Nil(t, p.Assignments["GK"])
	require.Equal(t, int64(7), *p.Assignments["RM"])

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "4-4-2", decoded["formation"])
	require.EqualValues(t, 3, decoded["team"])
	require.Contains(t, decoded["assignments"], "LS")
}
