// Copyright 2024-2026 Aiku AI

package postfmt_test

import (
	"fmt"

	"github.com/aiku/textpost-bridge/pkg/connector/postfmt"
)

func ExampleExtract() {
	title, content := postfmt.Extract("..Hello.. world")
	fmt.Println(title)
	fmt.Println(content)
	// Output:
	// Hello
	// world
}

func ExampleExtract_noTitle() {
	title, content := postfmt.Extract("just a plain update")
	fmt.Printf("%q\n", title)
	fmt.Println(content)
	// Output:
	// ""
	// just a plain update
}
