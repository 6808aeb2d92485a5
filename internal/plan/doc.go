// Package plan provides the resolution pipeline that turns pipeline
// declarations and a build mode into a ResolvedPlan consumed by a bundling engine.
//
// Resolution pipeline:
//  1. Check the build mode (development or production)
//  2. For each rule in declared order:
//     - Compile its matcher
//     - Keep the stages whose condition holds, in declared order
//     - Resolve stage options (mode overrides, source maps, minification keys)
//  3. Filter and order whole-build plugins and minimizers the same way
//  4. Resolve one output naming template per asset class
//  5. Emit diagnostics for everything that was omitted
//
// Resolution is a pure function of its inputs. A Resolver may be shared by
// concurrent callers and every call returns an independent plan.
package plan
