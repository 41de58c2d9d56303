package script_test

import (
	"errors"
	"testing"

	domainerrors "github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembly(t *testing.T) {
	asm := script.NewAssembly("Test.Assembly")
	foo := script.MustComponentClass("Test.Foo", newFoo)
	spawner := script.MustObjectClass[Spawner]("Test.Spawner", nil)

	require.NoError(t, asm.Add(foo, spawner))
	assert.Equal(t, "Test.Assembly", foo.Assembly())
	assert.Equal(t, []*script.Class{foo, spawner}, asm.Classes())

	got, ok := asm.Class("Test.Foo")
	require.True(t, ok)
	assert.Same(t, foo, got)

	err := asm.Add(foo)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicate))

	other := script.NewAssembly("Test.Other")
	assert.Error(t, other.Add(foo), "a class belongs to one assembly")
	assert.False(t, asm.Dynamic())
	assert.True(t, script.NewAssembly("Test.Gen", script.WithDynamic()).Dynamic())
}

func TestAssembly_Enums(t *testing.T) {
	asm := script.NewAssembly("Test.Enums")
	team := script.MustEnum("Game.Team", script.Value("Red", 0), script.Value("Blue", 1))

	require.NoError(t, asm.AddEnum(team))
	assert.Error(t, asm.AddEnum(team))

	info := asm.Enums()[0].Info()
	assert.Equal(t, "Game.Team", info.Name)
	require.Len(t, info.Values, 2)
	assert.Equal(t, "Red", info.Values[0].Key)
	assert.Equal(t, 1, info.Values[1].Value)
}

func TestNewEnum_Errors(t *testing.T) {
	_, err := script.NewEnum("Game.Team", script.Value("Red", 0), script.Value("Red", 1))
	assert.Error(t, err)

	_, err = script.NewEnum("", script.Value("Red", 0))
	assert.Error(t, err)

	_, err = script.NewEnum("Game.Team", script.Value("", 0))
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	asm := script.NewAssembly("Test.Catalog")
	require.NoError(t, script.Register(asm))
	t.Cleanup(func() { script.Unregister("Test.Catalog") })

	got, err := script.LookupAssembly("Test.Catalog")
	require.NoError(t, err)
	assert.Same(t, asm, got)
	assert.Contains(t, script.AssemblyNames(), "Test.Catalog")

	err = script.Register(script.NewAssembly("Test.Catalog"))
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicate))

	_, err = script.LookupAssembly("Test.Missing")
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	assert.Error(t, script.Register(script.NewAssembly("not a name")))
}
