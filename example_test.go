package ucflow_test

import (
	"fmt"
	"log"

	"github.com/CodeQwQ/ucflow"
	"github.com/CodeQwQ/ucflow/pkg/dsl"
	"github.com/CodeQwQ/ucflow/pkg/transform"
)

// ExampleEngine_TransformUseCase builds a use case in code and lowers it in overview mode.
func ExampleEngine_TransformUseCase() {
	loader, err := dsl.Loader()
	if err != nil {
		log.Fatal(err)
	}
	engine, err := ucflow.New("", ucflow.WithLoader(loader), ucflow.WithMode(transform.Overview))
	if err != nil {
		log.Fatal(err)
	}

	uc := dsl.New("Checkout").Main(func(f *dsl.Flow) {
		f.Step("s1", "Customer reviews the cart")
		f.Check("c1", "System checks stock", "items in stock", func(alt *dsl.Flow) {
			alt.Abort("a1", "Out of stock")
		})
		f.Include("i1", "Payment")
	}).MustBuild()

	res, err := engine.TransformUseCase(uc)
	if err != nil {
		log.Fatal(err)
	}
	for _, n := range res.Document.Nodes {
		fmt.Println(n.ID, n.Kind)
	}
	// Output:
	// start_Checkout initial
	// action_s1 action
	// check_c1 action
	// decision_c1 decision
	// merge_c1 merge
	// alt_behavior_c1 action
	// include_i1 action
	// end_Checkout final
}
