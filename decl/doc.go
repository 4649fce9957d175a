// Package decl holds the declarations stubgen consumes: types, member
// signatures, interface contracts and class descriptors.
//
// Member identity is the pair (name, parameter types). Return types are
// not part of it, and a member's own type parameters are numbered by
// position, so "<E> toArray(a: Array<out E>)" and
// "<T> toArray(a: Array<out T>)" name the same member while "toArray()"
// is a different one.
//
// Declarations are usually loaded from YAML:
//
//	classes:
//	  - name: MyList
//	    params: [T]
//	    supertypes: ["List<T>"]
//	    members:
//	      - "get(index: Int): T"
//	      - sig: "iterator(): Iterator<T>"
//	        body: absent
//
// A Universe is the in-memory symbol table the resolver reads through the
// Symbols interface.
package decl
