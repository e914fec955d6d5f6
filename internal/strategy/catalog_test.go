package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

func TestCatalogCoversEveryBuildableStage(t *testing.T) {
	for _, info := range Catalog() {
		stage, err := NewStage(info.Name, domain.PlayerA, nil, 0)
		require.NoError(t, err, info.Name)
		assert.Equal(t, info.Name, stage.Name())
		assert.Equal(t, info.Role == "decider", stage.IsDecider(), info.Name)
	}
}

func TestNewStageRejectsUnknownPolicy(t *testing.T) {
	_, err := NewStage("CrystalBall", domain.PlayerA, nil, 0)
	assert.Error(t, err)
}

func TestBuildStackDefaults(t *testing.T) {
	stack, err := BuildStack(DefaultStackNames(), domain.PlayerB, rand.New(rand.NewSource(3)), 0)
	require.NoError(t, err)
	assert.Equal(t,
		"StrategyStack(TriesToWin => Setup => AvoidInescapableTraps => AvoidTraps => ThreeInARow)",
		stack.String())
}

func TestBuildStackRejectsEmptyAndUnknown(t *testing.T) {
	_, err := BuildStack(nil, domain.PlayerA, rand.New(rand.NewSource(4)), 0)
	assert.Error(t, err)

	_, err = BuildStack([]string{"TriesToWin", "Nope"}, domain.PlayerA, rand.New(rand.NewSource(5)), 0)
	assert.Error(t, err)
}

func TestNewStageSearchDepthOverride(t *testing.T) {
	stage, err := NewStage("SearchForWin", domain.PlayerA, nil, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, stage.decider.(*SearchForWin).depth)

	stage, err = NewStage("SearchForWinCache", domain.PlayerA, nil, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, stage.decider.(*SearchForWin).depth)

	// Zero keeps each policy's own horizon.
	stage, err = NewStage("SearchForWin", domain.PlayerA, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchDepth, stage.decider.(*SearchForWin).depth)

	stage, err = NewStage("SearchForWinCache", domain.PlayerA, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultCacheSearchDepth, stage.decider.(*SearchForWin).depth)
}

func TestSharedTableAcrossCachedSearchStages(t *testing.T) {
	table := NewTranspositionTable()
	a, err := NewStage("SearchForWinCache", domain.PlayerA, table, 0)
	require.NoError(t, err)
	b, err := NewStage("SearchForWinCache", domain.PlayerB, table, 0)
	require.NoError(t, err)
	assert.Equal(t, "SearchForWinCache", a.Name())
	assert.Equal(t, "SearchForWinCache", b.Name())
}
