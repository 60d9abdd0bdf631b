/*
Package dsl provides a Go DSL for programmatically constructing UCMeta use cases.

It allows developers to define use cases with a type-safe, fluent builder instead of
YAML or JSON files. Nested flows (alternative flows, branches, loop bodies) are
described with closures that receive a *Flow for the nested sentence list.

Example usage:

	uc, err := dsl.New("UserLogin").
		Pre("user is registered").
		Main(func(f *dsl.Flow) {
			f.Step("s1", "User enters credentials").By("User", "enters", "Credentials")
			f.Check("c1", "System validates credentials", "credentials valid", func(alt *dsl.Flow) {
				alt.Step("a1", "System shows an error").Responds()
				alt.Resume("r1", "s1")
			})
			f.Step("s2", "System opens the dashboard").Responds()
		}).
		Post("user is signed in").
		Build()
*/
package dsl
