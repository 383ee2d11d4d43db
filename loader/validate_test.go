package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/dungeoncore/types"
)

func validDefs() (Definitions, types.MapLayout) {
	rat := DefaultActorType()
	rat.Icon, rat.Name = 'r', "Rat"
	sword := DefaultItemType()
	sword.Icon, sword.Name = '/', "Sword"
	layout := types.MapLayout{
		Width:  3,
		Height: 1,
		Placements: []types.Placement{
			{Pos: types.Position{X: 0}, Symbol: '@'},
			{Pos: types.Position{X: 1}, Symbol: 'r'},
			{Pos: types.Position{X: 2}, Symbol: '/'},
		},
	}
	return Definitions{Actors: []types.ActorTypeDef{rat}, Items: []types.ItemTypeDef{sword}}, layout
}

func TestValidate_Valid(t *testing.T) {
	defs, layout := validDefs()
	require.NoError(t, validate(defs, layout))
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definitions, *types.MapLayout)
		want   string
	}{
		{"icon shared by monster and item", func(d *Definitions, _ *types.MapLayout) {
			d.Items[0].Icon = 'r'
		}, "reuses icon"},
		{"player icon", func(d *Definitions, _ *types.MapLayout) {
			d.Actors[0].Icon = '@'
		}, "reserved"},
		{"empty cell icon", func(d *Definitions, _ *types.MapLayout) {
			d.Items[0].Icon = '0'
		}, "reserved"},
		{"no icon", func(d *Definitions, _ *types.MapLayout) {
			d.Items[0].Icon = 0
		}, "no icon"},
		{"no name", func(d *Definitions, _ *types.MapLayout) {
			d.Actors[0].Name = ""
		}, "no name"},
		{"dead on arrival", func(d *Definitions, _ *types.MapLayout) {
			d.Actors[0].Health = 0
		}, "health"},
		{"no energy", func(d *Definitions, _ *types.MapLayout) {
			d.Actors[0].Energy = -1
		}, "energy"},
		{"unknown ai", func(d *Definitions, _ *types.MapLayout) {
			d.Actors[0].AI = "berserk"
		}, "unknown ai"},
		{"negative weight", func(d *Definitions, _ *types.MapLayout) {
			d.Items[0].Weight = -2
		}, "weight"},
		{"no player start", func(_ *Definitions, l *types.MapLayout) {
			l.Placements = l.Placements[1:]
		}, "player start"},
		{"two player starts", func(_ *Definitions, l *types.MapLayout) {
			l.Placements[1].Symbol = '@'
		}, "2 player starts"},
		{"empty map", func(_ *Definitions, l *types.MapLayout) {
			l.Width = 0
		}, "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs, layout := validDefs()
			tt.mutate(&defs, &layout)

			err := validate(defs, layout)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assertContains(t, ve.Errors, tt.want)
		})
	}
}

func TestValidate_UnusedTypeIsOnlyAWarning(t *testing.T) {
	defs, layout := validDefs()
	layout.Placements = layout.Placements[:1]
	assert.NoError(t, validate(defs, layout))
}

func TestValidate_WarningsFollowDefinitionOrder(t *testing.T) {
	var defs Definitions
	for i, icon := range "zyxwvu" {
		a := DefaultActorType()
		a.Icon, a.Name = icon, "Beast"+string(rune('A'+i))
		defs.Actors = append(defs.Actors, a)
	}
	for i, icon := range "%$&" {
		it := DefaultItemType()
		it.Icon, it.Name = icon, "Trinket"+string(rune('A'+i))
		defs.Items = append(defs.Items, it)
	}
	layout := types.MapLayout{Width: 1, Height: 1} // no player start, so validate fails

	for run := 0; run < 20; run++ {
		err := validate(defs, layout)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.Warnings, 9)
		assert.Contains(t, ve.Warnings[0], "BeastA")
		assert.Contains(t, ve.Warnings[5], "BeastF")
		assert.Contains(t, ve.Warnings[6], "TrinketA")
		assert.Contains(t, ve.Warnings[8], "TrinketC")
	}
}

func TestValidate_BlankIconCanBePlaced(t *testing.T) {
	defs, _ := validDefs()
	ghost := DefaultActorType()
	ghost.Icon, ghost.Name = ' ', "Ghost"
	defs.Actors = append(defs.Actors, ghost)

	layout, err := ParseMap(strings.NewReader("@, ,r,/"), 4, 1)
	require.NoError(t, err)
	require.Len(t, layout.Placements, 4)
	assert.Equal(t, ' ', layout.Placements[1].Symbol)
	assert.Equal(t, types.Position{X: 1}, layout.Placements[1].Pos)

	require.NoError(t, validate(defs, layout))
}

func assertContains(t *testing.T, msgs []string, substr string) {
	t.Helper()
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return
		}
	}
	t.Errorf("expected a message containing %q, got %v", substr, msgs)
}
