// Package script is the authoring side of the bridge: it is what script code
// imports to declare the classes, components and enumerations the native host
// can create, drive and introspect.
//
// Classes are described once, when they are registered, by reflecting over
// their Go type and struct tags. After that every lookup is a table read.
//
//	type Foo struct {
//	    script.Component
//
//	    Speed float32 `script:"" category:"Stats" meta:"Tooltip=hp"`
//
//	    BumpFunc script.Function `method:"Bump" params:"n" category:"Combat"`
//	}
//
//	func (f *Foo) Bump(n int32) bool { ... }
//	func (f *Foo) TickComponent(deltaSeconds float32) { ... }
//
//	func init() {
//	    asm := script.NewAssembly("Game.Scripts")
//	    asm.MustAdd(script.MustComponentClass("Game.Foo", func(id entities.InstanceID, owner entities.BorrowedHandle) *Foo {
//	        return &Foo{Component: script.NewComponent(id, owner)}
//	    }))
//	    script.MustRegister(asm)
//	}
//
// Property tags:
//
//	script:""            marks the field as script-visible (exported in metadata)
//	category:"Stats"     emitted first as the ("Category", "Stats") metadata pair
//	meta:"K=V,K2=V2"     free-form metadata pairs, in order
//	flags:"savegame,advanced"
//
// Function markers are fields of type Function carrying the method name, its
// parameter names and the same category/meta tags.
package script
