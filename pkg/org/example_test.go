package org_test

import (
	"fmt"

	"github.com/matzehuels/orgchart/pkg/org"
)

func ExampleToggle() {
	forest := []*org.Node{{
		ID:         "dept:eng",
		Label:      "Engineering",
		IsExpanded: true,
		Children: []*org.Node{
			{ID: "emp:1", Label: "Ada"},
			{ID: "emp:2", Label: "Linus"},
		},
	}}

	fmt.Println(len(org.Visible(forest)))
	collapsed := org.Toggle(forest, "dept:eng")
	fmt.Println(len(org.Visible(collapsed)))
	fmt.Println(len(org.Visible(forest)))
	// Output:
	// 3
	// 1
	// 3
}

func ExamplePathTo() {
	forest := []*org.Node{{
		ID: "ceo", Label: "CEO",
		Children: []*org.Node{{
			ID: "cto", Label: "CTO",
			Children: []*org.Node{{ID: "dev", Label: "Developer"}},
		}},
	}}
	for _, n := range org.PathTo(forest, "dev") {
		fmt.Println(n.Label)
	}
	// Output:
	// CEO
	// CTO
	// Developer
}
