package native

import (
	"reflect"
	"strings"
	"testing"
)

func TestSignaturesMatchBoundFunctionTypes(t *testing.T) {
	var p Procs
	pv := reflect.ValueOf(&p).Elem()
	fieldAt := make(map[uintptr]string, pv.NumField())
	for i := 0; i < pv.NumField(); i++ {
		fieldAt[pv.Field(i).Addr().Pointer()] = pv.Type().Field(i).Name
	}

	bound := make(map[string]string)
	for _, s := range signatures {
		slot := reflect.ValueOf(s.Target(&p))
		field, ok := fieldAt[slot.Pointer()]
		if !ok {
			t.Fatalf("%s: slot is not a Procs field", s.Name)
		}
		if prev, dup := bound[field]; dup {
			t.Fatalf("%s and %s both bind Procs.%s", prev, s.Name, field)
		}
		bound[field] = s.Name

		ft := slot.Elem().Type()
		if ft.Kind() != reflect.Func {
			t.Fatalf("%s: Procs.%s is %s, not a func", s.Name, field, ft)
		}
		if ft.NumIn() != len(s.Params) {
			t.Fatalf("%s: declared %d params, Procs.%s takes %d", s.Name, len(s.Params), field, ft.NumIn())
		}
		for i, k := range s.Params {
			if got, want := ft.In(i), k.GoType(); got != want {
				t.Errorf("%s: param %d declared %s (%s), bound as %s", s.Name, i, k, want, got)
			}
		}
		switch {
		case s.Return == KindVoid && ft.NumOut() != 0:
			t.Errorf("%s: declared void, Procs.%s returns %d values", s.Name, field, ft.NumOut())
		case s.Return != KindVoid && (ft.NumOut() != 1 || ft.Out(0) != s.Return.GoType()):
			t.Errorf("%s: declared return %s, Procs.%s is %s", s.Name, s.Return, field, ft)
		}
	}

	for _, name := range fieldAt {
		if _, ok := bound[name]; !ok {
			t.Errorf("Procs.%s has no signature", name)
		}
	}
}

func TestEveryStatusCallEndsWithStatusPointer(t *testing.T) {
	noStatus := map[string]bool{
		"C_GetLastErrorString": true,
		"C_DefaultReal":        true,
	}
	for _, s := range Signatures() {
		if !strings.HasPrefix(s.Name, "C_") {
			t.Errorf("%s: entry points are C_ prefixed", s.Name)
		}
		last := KindVoid
		if len(s.Params) > 0 {
			last = s.Params[len(s.Params)-1]
		}
		if noStatus[s.Name] {
			if last == KindStatusPtr {
				t.Errorf("%s: unexpected status parameter", s.Name)
			}
			continue
		}
		if last != KindStatusPtr {
			t.Errorf("%s: last parameter is %s, want status*", s.Name, last)
		}
		for _, k := range s.Params[:len(s.Params)-1] {
			if k == KindStatusPtr {
				t.Errorf("%s: status* must be the last parameter", s.Name)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("C_GetDataDouble")
	if !ok {
		t.Fatal("C_GetDataDouble not found")
	}
	if s.Feature != "" {
		t.Fatalf("C_GetDataDouble is required, got feature %q", s.Feature)
	}
	if _, ok := Lookup("C_Nope"); ok {
		t.Fatal("lookup of unknown entry point succeeded")
	}

	s, _ = Lookup("C_GetDiffractionOutput")
	if s.Feature != FeatureDiffraction {
		t.Fatalf("C_GetDiffractionOutput feature = %q", s.Feature)
	}
}

func TestSignaturesIsACopy(t *testing.T) {
	a := Signatures()
	a[0].Name = "mutated"
	if Signatures()[0].Name == "mutated" {
		t.Fatal("Signatures exposes the table")
	}
}
