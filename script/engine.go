package script

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/physics"
	"github.com/milk9111/shootgame/scene"
	"golang.org/x/image/colornames"
)

func (r *Runner) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["create_ground"] = r.fn("create_ground", 2, func(args []tengo.Object) (tengo.Object, error) {
		size, err := vecArg("create_ground", "size", args[0])
		if err != nil {
			return nil, err
		}
		pos, err := vecArg("create_ground", "position", args[1])
		if err != nil {
			return nil, err
		}
		return r.spawn(scene.Cube(size.Mul(2), colornames.Slategray), 0, func(node *scene.Node) (physics.Handle, error) {
			return r.world.CreateGround(size, pos, node)
		}), nil
	})

	values["create_box"] = r.fn("create_box", 3, func(args []tengo.Object) (tengo.Object, error) {
		size, pos, mass, err := placedArgs("create_box", args)
		if err != nil {
			return nil, err
		}
		return r.spawn(scene.Cube(size.Mul(2), colorFor(mass, colornames.Orange)), mass, func(node *scene.Node) (physics.Handle, error) {
			return r.world.CreateBox(size, pos, mass, node)
		}), nil
	})

	values["create_cylinder"] = r.fn("create_cylinder", 3, func(args []tengo.Object) (tengo.Object, error) {
		ext, pos, mass, err := placedArgs("create_cylinder", args)
		if err != nil {
			return nil, err
		}
		return r.spawn(scene.Cylinder(ext[0], 2*ext[1], colorFor(mass, colornames.Crimson)), mass, func(node *scene.Node) (physics.Handle, error) {
			return r.world.CreateCylinder(ext, pos, mass, node)
		}), nil
	})

	values["create_sphere"] = r.fn("create_sphere", 3, func(args []tengo.Object) (tengo.Object, error) {
		radius, err := floatArg("create_sphere", "radius", args[0])
		if err != nil {
			return nil, err
		}
		pos, err := vecArg("create_sphere", "position", args[1])
		if err != nil {
			return nil, err
		}
		mass, err := floatArg("create_sphere", "mass", args[2])
		if err != nil {
			return nil, err
		}
		return r.spawn(scene.Sphere(radius, colorFor(mass, colornames.Gold)), mass, func(node *scene.Node) (physics.Handle, error) {
			return r.world.CreateSphere(radius, pos, mass, node)
		}), nil
	})

	values["throw_box"] = r.fn("throw_box", 5, func(args []tengo.Object) (tengo.Object, error) {
		size, pos, dir, mass, force, err := thrownArgs("throw_box", args)
		if err != nil {
			return nil, err
		}
		return r.spawn(scene.Cube(size.Mul(2), colornames.Orange), mass, func(node *scene.Node) (physics.Handle, error) {
			return r.world.CreateBoxFromEye(size, pos, dir, mass, force, node)
		}), nil
	})

	values["throw_cylinder"] = r.fn("throw_cylinder", 5, func(args []tengo.Object) (tengo.Object, error) {
		ext, pos, dir, mass, force, err := thrownArgs("throw_cylinder", args)
		if err != nil {
			return nil, err
		}
		return r.spawn(scene.Cylinder(ext[0], 2*ext[1], colornames.Crimson), mass, func(node *scene.Node) (physics.Handle, error) {
			return r.world.CreateCylinderFromEye(ext, pos, dir, mass, force, node)
		}), nil
	})

	values["throw_sphere"] = r.fn("throw_sphere", 5, func(args []tengo.Object) (tengo.Object, error) {
		radius, err := floatArg("throw_sphere", "radius", args[0])
		if err != nil {
			return nil, err
		}
		pos, dir, mass, force, err := launchArgs("throw_sphere", args[1:])
		if err != nil {
			return nil, err
		}
		return r.spawn(scene.Sphere(radius, colornames.Gold), mass, func(node *scene.Node) (physics.Handle, error) {
			return r.world.CreateSphereFromEye(radius, pos, dir, mass, force, node)
		}), nil
	})

	values["impulse"] = r.fn("impulse", 3, func(args []tengo.Object) (tengo.Object, error) {
		h, err := handleArg("impulse", args[0])
		if err != nil {
			return nil, err
		}
		dir, err := vecArg("impulse", "direction", args[1])
		if err != nil {
			return nil, err
		}
		force, err := floatArg("impulse", "force", args[2])
		if err != nil {
			return nil, err
		}
		return boolObject(r.world.ApplyImpulse(h, dir, force)), nil
	})

	values["remove"] = r.fn("remove", 1, func(args []tengo.Object) (tengo.Object, error) {
		h, err := handleArg("remove", args[0])
		if err != nil {
			return nil, err
		}
		body, ok := r.bodies[h]
		if !ok {
			return boolObject(r.world.RemoveBody(h)), nil
		}
		delete(r.bodies, h)
		live := r.world.Contains(h)
		r.world.RemoveNode(body, r.root)
		return boolObject(live), nil
	})

	values["body_count"] = r.fn("body_count", 0, func(args []tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(r.world.BodyCount())}, nil
	})

	values["position"] = r.fn("position", 1, func(args []tengo.Object) (tengo.Object, error) {
		h, err := handleArg("position", args[0])
		if err != nil {
			return nil, err
		}
		p, ok := r.world.Position(h)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return vecObject(p), nil
	})

	values["velocity"] = r.fn("velocity", 1, func(args []tengo.Object) (tengo.Object, error) {
		h, err := handleArg("velocity", args[0])
		if err != nil {
			return nil, err
		}
		v, ok := r.world.Velocity(h)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return vecObject(v), nil
	})

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		r.logf("%s", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// fn wraps a body-touching function with an arity check and a guard for a
// runner that has not been set up yet.
func (r *Runner) fn(name string, arity int, call func(args []tengo.Object) (tengo.Object, error)) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != arity {
			return nil, tengo.ErrWrongNumArguments
		}
		if r.world == nil {
			return errorObject(ErrNotAttached), nil
		}
		return call(args)
	}}
}

// spawn creates a node under the runner's root and the body behind it.
// Creation errors come back to the script as error values.
func (r *Runner) spawn(rend *scene.Renderable, mass float64, create func(node *scene.Node) (physics.Handle, error)) tengo.Object {
	node := scene.NewNode(rend)
	if r.root != nil {
		r.root.AddChild(node)
	}
	h, err := create(node)
	if err != nil {
		node.SetParent(nil)
		r.logf("create failed: %v", err)
		return errorObject(err)
	}
	body := physics.NewPhysicsBody(node, mass)
	if err := body.SetHandle(h); err != nil {
		r.world.RemoveBody(h)
		node.SetParent(nil)
		r.logf("create failed: %v", err)
		return errorObject(err)
	}
	r.bodies[h] = body
	return &tengo.Int{Value: int64(h)}
}

func colorFor(mass float64, dynamic color.Color) color.Color {
	if mass == 0 {
		return colornames.Slategray
	}
	return dynamic
}

func placedArgs(fn string, args []tengo.Object) (mgl64.Vec3, mgl64.Vec3, float64, error) {
	dims, err := vecArg(fn, "size", args[0])
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, 0, err
	}
	pos, err := vecArg(fn, "position", args[1])
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, 0, err
	}
	mass, err := floatArg(fn, "mass", args[2])
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, 0, err
	}
	return dims, pos, mass, nil
}

func thrownArgs(fn string, args []tengo.Object) (dims, pos, dir mgl64.Vec3, mass, force float64, err error) {
	dims, err = vecArg(fn, "size", args[0])
	if err != nil {
		return
	}
	pos, dir, mass, force, err = launchArgs(fn, args[1:])
	return
}

func launchArgs(fn string, args []tengo.Object) (pos, dir mgl64.Vec3, mass, force float64, err error) {
	if pos, err = vecArg(fn, "position", args[0]); err != nil {
		return
	}
	if dir, err = vecArg(fn, "direction", args[1]); err != nil {
		return
	}
	if mass, err = floatArg(fn, "mass", args[2]); err != nil {
		return
	}
	force, err = floatArg(fn, "force", args[3])
	return
}

func floatArg(fn, name string, obj tengo.Object) (float64, error) {
	f, ok := tengo.ToFloat64(obj)
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: fn + ":" + name, Expected: "float", Found: obj.TypeName()}
	}
	return f, nil
}

func vecArg(fn, name string, obj tengo.Object) (mgl64.Vec3, error) {
	arr, ok := obj.(*tengo.Array)
	if !ok || len(arr.Value) != 3 {
		return mgl64.Vec3{}, tengo.ErrInvalidArgumentType{Name: fn + ":" + name, Expected: "[x, y, z]", Found: obj.TypeName()}
	}
	var v mgl64.Vec3
	for i, item := range arr.Value {
		f, ok := tengo.ToFloat64(item)
		if !ok {
			return mgl64.Vec3{}, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("%s:%s[%d]", fn, name, i), Expected: "float", Found: item.TypeName()}
		}
		v[i] = f
	}
	return v, nil
}

func handleArg(fn string, obj tengo.Object) (physics.Handle, error) {
	i, ok := obj.(*tengo.Int)
	if !ok {
		return physics.NoHandle, tengo.ErrInvalidArgumentType{Name: fn + ":handle", Expected: "int", Found: obj.TypeName()}
	}
	return physics.Handle(i.Value), nil
}

func vecObject(v mgl64.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v[0]},
		&tengo.Float{Value: v[1]},
		&tengo.Float{Value: v[2]},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func errorObject(err error) *tengo.Error {
	return &tengo.Error{Value: &tengo.String{Value: err.Error()}}
}
