package script_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	domainerrors "github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type UActor struct {
	script.UObject
	script.ConvertClassName
}

type Foo struct {
	script.Component

	Speed  float32 `script:"" category:"Stats" meta:"Tooltip=hp,ClampMin=0"`
	Armor  int32   `script:"" flags:"savegame,advanced"`
	Target *UActor `script:""`
	Notes  string

	BumpFunc script.Function `method:"Bump" params:"n" category:"Combat" meta:"Tooltip=bump"`
	AimFunc  script.Function `method:"Aim" params:"target,weight"`

	hidden int
}

func (f *Foo) Bump(n int32) bool              { return n > 0 }
func (f *Foo) Aim(t *UActor, w float32) error { return nil }
func (f *Foo) TickComponent(float32)          {}

func newFoo(id entities.InstanceID, owner entities.BorrowedHandle) *Foo {
	return &Foo{Component: script.NewComponent(id, owner)}
}

func TestTypeTagOf(t *testing.T) {
	tests := []struct {
		typ      reflect.Type
		name     string
		want     entities.TypeTag
		isReturn bool
	}{
		{name: "float32", typ: reflect.TypeFor[float32](), want: entities.TypeFloat},
		{name: "float64", typ: reflect.TypeFor[float64](), want: entities.TypeFloat},
		{name: "int", typ: reflect.TypeFor[int](), want: entities.TypeInt},
		{name: "int32", typ: reflect.TypeFor[int32](), want: entities.TypeInt},
		{name: "bool", typ: reflect.TypeFor[bool](), want: entities.TypeBool},
		{name: "string", typ: reflect.TypeFor[string](), want: entities.TypeString},
		{name: "wrapper", typ: reflect.TypeFor[*UActor](), want: entities.TypeObject},
		{name: "native interface", typ: reflect.TypeFor[script.NativeObject](), want: entities.TypeObject},
		{name: "void return", typ: nil, isReturn: true, want: entities.TypeVoid},
		{name: "void parameter", typ: nil, want: entities.TypeUnknown},
		{name: "slice", typ: reflect.TypeFor[[]int](), want: entities.TypeUnknown},
		{name: "int64", typ: reflect.TypeFor[int64](), want: entities.TypeUnknown},
		{name: "wrapper by value", typ: reflect.TypeFor[UActor](), want: entities.TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, script.TypeTagOf(tt.typ, tt.isReturn))
		})
	}
}

func TestClassNameOf(t *testing.T) {
	assert.Equal(t, "Actor", script.ClassNameOf(reflect.TypeFor[*UActor]()))
	assert.Equal(t, "Foo", script.ClassNameOf(reflect.TypeFor[*Foo]()))
	assert.Equal(t, "float32", script.ClassNameOf(reflect.TypeFor[float32]()))
	assert.Equal(t, "", script.ClassNameOf(nil))
}

func TestNewComponentClass(t *testing.T) {
	class, err := script.NewComponentClass("Game.Foo", newFoo)
	require.NoError(t, err)

	assert.Equal(t, "Game.Foo", class.Name())
	assert.Equal(t, script.KindComponent, class.Kind())
	assert.False(t, class.Abstract())

	t.Run("properties", func(t *testing.T) {
		all := class.Properties()
		require.Len(t, all, 4)

		visible := class.ScriptProperties()
		names := make([]string, 0, len(visible))
		for _, p := range visible {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"Speed", "Armor", "Target"}, names)

		speed, ok := class.Property("Speed")
		require.True(t, ok)
		assert.Equal(t, entities.TypeFloat, speed.Tag)
		assert.Equal(t, []entities.Meta{
			{Key: "Category", Value: "Stats"},
			{Key: "Tooltip", Value: "hp"},
			{Key: "ClampMin", Value: "0"},
		}, speed.MetaData())

		armor, _ := class.Property("Armor")
		assert.True(t, armor.SaveGame)
		assert.True(t, armor.AdvancedDisplay)
		assert.Empty(t, armor.MetaData())

		target, _ := class.Property("Target")
		assert.Equal(t, entities.TypeObject, target.Tag)
		assert.Equal(t, "Actor", target.ClassName())

		_, ok = class.Property("hidden")
		assert.False(t, ok)
	})

	t.Run("methods", func(t *testing.T) {
		methods := class.Methods()
		require.Len(t, methods, 2)

		bump := methods[0]
		assert.Equal(t, "Bump", bump.Name)
		assert.Equal(t, []string{"n"}, bump.ParamNames)
		assert.Equal(t, []entities.TypeTag{entities.TypeInt}, bump.ParamTags)
		assert.Equal(t, entities.TypeBool, bump.ReturnTag)
		assert.Equal(t, []entities.Meta{
			{Key: "Category", Value: "Combat"},
			{Key: "Tooltip", Value: "bump"},
		}, bump.MetaData())

		aim := methods[1]
		assert.Equal(t, []string{"target", "weight"}, aim.ParamNames)
		assert.Equal(t, entities.TypeVoid, aim.ReturnTag)
		assert.True(t, aim.ReturnsError)
	})

	t.Run("untagged method described on demand", func(t *testing.T) {
		m, ok := class.Method("TickComponent")
		require.True(t, ok)
		assert.False(t, m.Visible)
		assert.Equal(t, []entities.TypeTag{entities.TypeFloat}, m.ParamTags)

		_, ok = class.Method("Missing")
		assert.False(t, ok)
	})

	t.Run("new", func(t *testing.T) {
		inst, err := class.New(7, entities.Borrow(0x10))
		require.NoError(t, err)
		assert.Equal(t, entities.InstanceID(7), inst.InstanceID())
		foo := inst.(*Foo)
		assert.Equal(t, entities.NativeHandle(0x10), foo.Owner().Ptr())
	})

	t.Run("promotes", func(t *testing.T) {
		assert.True(t, class.Promotes("Close"))
		assert.True(t, class.Promotes("InstanceID"))
		assert.False(t, class.Promotes("TickComponent"))
	})
}

type NoBase struct {
	Speed float32
}

type Bar struct {
	Foo
}

type BadSignature struct {
	script.Component
	DoFunc script.Function `method:"Do"`
}

func (b *BadSignature) Do(values []int) {}

type BadMeta struct {
	script.Component
	Speed float32 `script:"" meta:"Tooltip"`
}

type BadParams struct {
	script.Component
	DoFunc script.Function `method:"Do" params:"a,b"`
}

func (b *BadParams) Do(a int32) {}

func TestNewComponentClass_Errors(t *testing.T) {
	t.Run("missing base", func(t *testing.T) {
		_, err := script.NewComponentClass[NoBase]("Game.NoBase", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrBinding))
	})

	t.Run("nested component", func(t *testing.T) {
		_, err := script.NewComponentClass[Bar]("Game.Bar", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, script.ErrNestedComponent))
	})

	t.Run("unsupported parameter", func(t *testing.T) {
		_, err := script.NewComponentClass[BadSignature]("Game.Bad", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported type")
	})

	t.Run("malformed meta", func(t *testing.T) {
		_, err := script.NewComponentClass[BadMeta]("Game.BadMeta", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed meta")
	})

	t.Run("params count mismatch", func(t *testing.T) {
		_, err := script.NewComponentClass[BadParams]("Game.BadParams", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "params tag names 2 parameters")
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := script.NewComponentClass("Game..Foo", newFoo)
		require.Error(t, err)
	})

	t.Run("abstract", func(t *testing.T) {
		class, err := script.NewComponentClass[Foo]("Game.AbstractFoo", nil)
		require.NoError(t, err)
		assert.True(t, class.Abstract())

		_, err = class.New(1, entities.BorrowedHandle{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrBinding))
	})
}

type Spawner struct {
	script.Object
	Count int32 `script:""`
}

func TestNewObjectClass(t *testing.T) {
	class, err := script.NewObjectClass("Game.Spawner", func(id entities.InstanceID, owner entities.BorrowedHandle) *Spawner {
		return &Spawner{Object: script.NewObject(id, owner)}
	})
	require.NoError(t, err)
	assert.Equal(t, script.KindObject, class.Kind())

	inst, err := class.New(3, entities.BorrowedHandle{})
	require.NoError(t, err)
	_, ok := inst.(script.ScriptObject)
	assert.True(t, ok)

	_, err = script.NewObjectClass[NoBase]("Game.NotAnObject", nil)
	require.Error(t, err)
}

func TestNewWrapperClass(t *testing.T) {
	class, err := script.NewWrapperClass("Klawr.UActor", func(h entities.BorrowedHandle) *UActor {
		return &UActor{UObject: script.NewUObject(h)}
	})
	require.NoError(t, err)
	assert.True(t, class.Implements(reflect.TypeFor[script.NativeObject]()))

	obj, err := class.Wrap(entities.Borrow(0x42))
	require.NoError(t, err)
	assert.Equal(t, entities.NativeHandle(0x42), obj.NativeObject().Ptr())

	_, err = script.NewWrapperClass[NoBase]("Klawr.NoBase", nil)
	require.Error(t, err)
}

func TestUObject_NilReceiver(t *testing.T) {
	var actor *script.UObject
	assert.True(t, actor.NativeObject().IsZero())
}
