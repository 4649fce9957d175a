package erasure

import (
	"strings"

	"github.com/wippyai/stubgen/decl"
)

var jvmPrimitives = map[string]string{
	decl.TypeInt:     "I",
	decl.TypeLong:    "J",
	decl.TypeShort:   "S",
	decl.TypeByte:    "B",
	decl.TypeChar:    "C",
	decl.TypeBoolean: "Z",
	decl.TypeFloat:   "F",
	decl.TypeDouble:  "D",
}

var jvmBoxes = map[string]string{
	decl.TypeInt:     "java/lang/Integer",
	decl.TypeLong:    "java/lang/Long",
	decl.TypeShort:   "java/lang/Short",
	decl.TypeByte:    "java/lang/Byte",
	decl.TypeChar:    "java/lang/Character",
	decl.TypeBoolean: "java/lang/Boolean",
	decl.TypeFloat:   "java/lang/Float",
	decl.TypeDouble:  "java/lang/Double",
}

// Read-only and mutable collection contracts share one platform class.
var jvmClasses = map[string]string{
	decl.TypeAny:              "java/lang/Object",
	decl.TypeString:           "java/lang/String",
	decl.TypeNothing:          "java/lang/Void",
	decl.TypeUnit:             "kotlin/Unit",
	"Comparable":              "java/lang/Comparable",
	"Iterable":                "java/lang/Iterable",
	"MutableIterable":         "java/lang/Iterable",
	"Iterator":                "java/util/Iterator",
	"MutableIterator":         "java/util/Iterator",
	"ListIterator":            "java/util/ListIterator",
	"MutableListIterator":     "java/util/ListIterator",
	"Collection":              "java/util/Collection",
	"MutableCollection":       "java/util/Collection",
	"List":                    "java/util/List",
	"MutableList":             "java/util/List",
	"Set":                     "java/util/Set",
	"MutableSet":              "java/util/Set",
	"Map":                     "java/util/Map",
	"MutableMap":              "java/util/Map",
	"Map.Entry":               "java/util/Map$Entry",
	"MutableMap.MutableEntry": "java/util/Map$Entry",
}

const jvmObject = "Ljava/lang/Object;"

// jvmType erases t to a field descriptor. Type parameters erase to
// Object, nullable primitives to their box.
func jvmType(t decl.Type) string {
	switch t.Kind {
	case decl.KindParam, decl.KindStar:
		return jvmObject
	}
	if t.Name == decl.TypeArray {
		if len(t.Args) == 0 {
			return "[" + jvmObject
		}
		return "[" + jvmRef(t.Args[0])
	}
	if p, ok := jvmPrimitives[t.Name]; ok && !t.Nullable {
		return p
	}
	return jvmRef(t)
}

// jvmRef erases t to a reference descriptor, boxing primitives.
func jvmRef(t decl.Type) string {
	switch t.Kind {
	case decl.KindParam, decl.KindStar:
		return jvmObject
	}
	if t.Name == decl.TypeArray {
		return jvmType(t)
	}
	if box, ok := jvmBoxes[t.Name]; ok {
		return "L" + box + ";"
	}
	if cls, ok := jvmClasses[t.Name]; ok {
		return "L" + cls + ";"
	}
	return "L" + strings.ReplaceAll(t.Name, ".", "$") + ";"
}

func jvmDescriptor(sig decl.Signature) Descriptor {
	var b strings.Builder
	b.WriteString(sig.Name)
	b.WriteByte('(')
	for _, p := range sig.Params {
		b.WriteString(jvmType(p.Type))
	}
	b.WriteByte(')')
	key := b.String()

	if sig.Returns() {
		b.WriteString(jvmType(sig.Return))
	} else {
		b.WriteByte('V')
	}
	return Descriptor{Key: key, Text: b.String()}
}
