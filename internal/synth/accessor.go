package synth

import (
	"fmt"
	"strings"

	"bridgegen/internal/common"
	"bridgegen/internal/config"
	"bridgegen/internal/decl"
	"bridgegen/internal/diagnostic"
)

// buildAccessors emits guarded accessors for fields annotated with a
// guard directive. The lock is declared at package scope, so access is
// serialized across all values of the struct, not per value. Guarded
// fields must stay unexported so the accessors are the only way in.
func (g *Generator) buildAccessors(data *templateData, f *decl.File) {
	for i := range f.Guards {
		guard := &f.Guards[i]

		if common.IsExported(guard.Field) {
			g.diags.AddError(diagnostic.CodeShapeUnsupported,
				fmt.Sprintf("guarded field %s.%s must be unexported: exported fields bypass the accessors",
					guard.Struct, guard.Field),
				guard.Struct+"."+guard.Field, guard.Strategy, guard.Pos)
			continue
		}

		strategy := guard.Strategy
		if strategy == "" {
			eff := config.Resolve(g.process.Snapshot(), config.BuiltIn())
			strategy = eff.Sync.String()
		}

		lockVar := common.Unexport(guard.Struct) + common.Export(guard.Field) + "Mu"
		lockType := "sync.RWMutex"
		readLock, readUnlock := "RLock", "RUnlock"

		if strategy == decl.GuardSerial {
			lockType = "sync.Mutex"
			readLock, readUnlock = "Lock", "Unlock"
		}

		data.Vars = append(data.Vars, fmt.Sprintf("var %s %s", lockVar, lockType))

		recv := structReceiver(guard.Struct)
		accessor := common.Export(guard.Field)

		data.Funcs = append(data.Funcs, funcData{
			Doc: []string{fmt.Sprintf("// %s returns %s under the %s guard.",
				accessor, guard.Field, strategy)},
			Recv: recv + " *" + guard.Struct,
			Sig:  fmt.Sprintf("%s() %s", accessor, guard.Type),
			Body: strings.Join([]string{
				"\t" + lockVar + "." + readLock + "()",
				"\tdefer " + lockVar + "." + readUnlock + "()",
				"\treturn " + recv + "." + guard.Field,
			}, "\n"),
		})

		data.Funcs = append(data.Funcs, funcData{
			Doc: []string{fmt.Sprintf("// Set%s replaces %s under the %s guard.",
				accessor, guard.Field, strategy)},
			Recv: recv + " *" + guard.Struct,
			Sig:  fmt.Sprintf("Set%s(v %s)", accessor, guard.Type),
			Body: strings.Join([]string{
				"\t" + lockVar + ".Lock()",
				"\tdefer " + lockVar + ".Unlock()",
				"\t" + recv + "." + guard.Field + " = v",
			}, "\n"),
		})
	}
}

// structReceiver picks a receiver name that cannot shadow the setter
// parameter v or the lock qualifier.
func structReceiver(structName string) string {
	r := strings.ToLower(structName[:1])
	if r == "v" {
		r = "s"
	}

	return r
}
