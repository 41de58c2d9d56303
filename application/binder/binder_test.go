package binder_test

import (
	"errors"
	"testing"

	"github.com/klawr-dev/klawr-sdk/go/application/binder"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	domainerrors "github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Spinner struct {
	script.Component
	ticks    []float32
	created  bool
	disposed bool
}

func (s *Spinner) OnComponentCreated()      { s.created = true }
func (s *Spinner) TickComponent(dt float32) { s.ticks = append(s.ticks, dt) }

// OnRegister has the wrong shape and must stay unbound.
func (s *Spinner) OnRegister(reason string) {}

func (s *Spinner) Close() error {
	s.disposed = true
	return nil
}

type helper struct{}

func (helper) OnUnregister() {}

type Inherits struct {
	script.Component
	helper
}

type tickDefaults struct{}

func (tickDefaults) TickComponent(dt float32) {}

type Shadowing struct {
	script.Component
	tickDefaults
	ticks int
}

func (s *Shadowing) TickComponent(dt float32) { s.ticks++ }

func newSpinner(id entities.InstanceID, owner entities.BorrowedHandle) *Spinner {
	return &Spinner{Component: script.NewComponent(id, owner)}
}

func TestEntryPoints(t *testing.T) {
	eps := binder.EntryPoints()

	names := make([]string, 0, len(eps))
	for _, ep := range eps {
		names = append(names, ep.Name)
	}
	assert.Equal(t, []string{
		"OnComponentCreated",
		"OnComponentDestroyed",
		"OnRegister",
		"OnUnregister",
		"InitializeComponent",
		"TickComponent",
	}, names)

	tick := eps[5]
	require.Len(t, tick.Params, 1)
	assert.Equal(t, "float32", tick.Params[0].String())

	again := binder.EntryPoints()
	assert.Same(t, &eps[0], &again[0], "entry points are computed once")
}

func TestBindClass(t *testing.T) {
	class := script.MustComponentClass("Game.Spinner", newSpinner)

	cb, err := binder.BindClass(class)
	require.NoError(t, err)
	assert.Equal(t, []string{"OnComponentCreated", "TickComponent"}, cb.Bound())

	inst, err := cb.New(4, entities.Borrow(0x9))
	require.NoError(t, err)

	proxy, err := cb.Proxy(4, inst)
	require.NoError(t, err)
	assert.Equal(t, entities.InstanceID(4), proxy.InstanceID)

	require.NotNil(t, proxy.OnComponentCreated)
	require.NotNil(t, proxy.TickComponent)
	assert.Nil(t, proxy.OnComponentDestroyed)
	assert.Nil(t, proxy.OnRegister)
	assert.Nil(t, proxy.OnUnregister)
	assert.Nil(t, proxy.InitializeComponent)

	proxy.OnComponentCreated()
	proxy.TickComponent(0.25)

	spinner := inst.(*Spinner)
	assert.True(t, spinner.created)
	assert.Equal(t, []float32{0.25}, spinner.ticks)
}

func TestBindClass_InheritedMethodsStayUnbound(t *testing.T) {
	class := script.MustComponentClass[Inherits]("Game.Inherits", func(id entities.InstanceID, owner entities.BorrowedHandle) *Inherits {
		return &Inherits{Component: script.NewComponent(id, owner)}
	})

	cb, err := binder.BindClass(class)
	require.NoError(t, err)
	assert.Empty(t, cb.Bound())
}

func TestBindClass_OwnMethodShadowsEmbedded(t *testing.T) {
	class := script.MustComponentClass("Game.Shadowing", func(id entities.InstanceID, owner entities.BorrowedHandle) *Shadowing {
		return &Shadowing{Component: script.NewComponent(id, owner)}
	})
	assert.False(t, class.Promotes("TickComponent"))

	cb, err := binder.BindClass(class)
	require.NoError(t, err)
	assert.Equal(t, []string{"TickComponent"}, cb.Bound())

	inst, err := class.New(1, entities.Borrow(0x1))
	require.NoError(t, err)
	proxy, err := cb.Proxy(1, inst)
	require.NoError(t, err)
	require.NotNil(t, proxy.TickComponent)
	proxy.TickComponent(0.5)
	assert.Equal(t, 1, inst.(*Shadowing).ticks)
}

func TestBindClass_NotAComponent(t *testing.T) {
	type Walker struct{ script.Object }
	class := script.MustObjectClass[Walker]("Game.Walker", nil)

	_, err := binder.BindClass(class)
	assert.True(t, errors.Is(err, domainerrors.ErrBinding))
}

func TestProxy_WrongInstanceType(t *testing.T) {
	cb, err := binder.BindClass(script.MustComponentClass("Game.Spinner", newSpinner))
	require.NoError(t, err)

	other := &Inherits{}
	_, err = cb.Proxy(1, other)
	assert.True(t, errors.Is(err, domainerrors.ErrBinding))
}

func TestBinder_Caches(t *testing.T) {
	b := binder.New()
	class := script.MustComponentClass("Game.Spinner", newSpinner)

	first, err := b.Bind(class)
	require.NoError(t, err)
	second, err := b.Bind(class)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, b.Len())
}

func TestBinder_AbstractClassFailsAtCreation(t *testing.T) {
	b := binder.New()
	cb, err := b.Bind(script.MustComponentClass[Spinner]("Game.Abstract", nil))
	require.NoError(t, err)

	_, err = cb.New(1, entities.BorrowedHandle{})
	assert.True(t, errors.Is(err, domainerrors.ErrBinding))
}
