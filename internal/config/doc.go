// Package config provides the YAML schema, loading, defaults and validation
// for asset pipeline declarations.
//
// A pipeline file declares everything a build needs in one place and is
// resolved against a single build mode by package plan.
//
// # Schema Overview
//
//	version: "1"
//	context: src
//	entry:
//	  main: ./js/index.js
//	output:
//	  path: dist
//	rules:
//	  - test: '\.s[ac]ss$'
//	    class: stylesheet
//	    use:
//	      - extract
//	      - css: {sourceMap: true}
//	      - name: sass
//	        options: {sourceMap: true}
//	      - name: minify-css
//	        when: production
//	plugins:
//	  - clean
//	  - name: html
//	    options: {template: ../public/index.html}
//	    production:
//	      minify: {collapseWhitespace: true}
//	  - name: bundle-analyzer
//	    when: production
//	naming:
//	  - class: script
//	    ext: js
//
// # Conditions
//
// Every stage and plugin may carry a "when" condition: "always" (the default),
// "development" or "production". A stage whose condition does not hold for
// the build mode is omitted from the resolved chain entirely.
//
// # Mode overrides
//
// The "production" and "development" maps are merged over "options" when the
// build runs in that mode. Nested maps merge key by key, other values replace.
//
// # Matchers
//
// A rule matches either by "test" (an RE2 regular expression over the slash
// separated file path) or by "glob" (a path.Match pattern over the base name).
// Rules are tried in declaration order and the first match wins.
package config
