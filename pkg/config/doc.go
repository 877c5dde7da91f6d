/*
Package config loads transformation rule files for entityfix.

	               +-------------+
	               |  rules.*    |
	               +------+------+
	                      |
	    +--------+--------+--------+--------+
	    |        |                 |        |
	+---+--+ +---+--+         +----+-+ +----+-+
	| TOML | | YAML |         | JSON | | HCL  |
	+------+ +------+         +------+ +------+
	                      |
	              rule.Compile (ordered)

🎯 Purpose:
- Picks a parser by file extension
- Decodes an ordered array of transformation rules
- Keeps the key order of each rule's `replacements` map, since that order is
  the order literal substitutions are applied in
- Hands the raw definitions to rule.Compile, which rejects incomplete rules

📝 TOML shape (the canonical format):

	[[transformations]]
	name = "invalid html entities"
	search_pattern = '(&[a-zA-Z]+:)'
	replacement_pattern = '\1'
	post_process = "html.unescape"
	post_process_exceptions = ["&nbsp;"]

	[transformations.replacements]
	":" = ";"

YAML and JSON use the same keys under a top level `transformations` list.
HCL uses one `transformation "<name>" { ... }` block per rule.

🔍 Example:

	rules, err := config.Load(ctx, "rules.toml")
	if err != nil {
		var cerr *rule.ConfigError
		if errors.As(err, &cerr) {
			fmt.Printf("rule %s is broken: %s\n", cerr.Rule, cerr.Reason)
		}
		return err
	}
*/
package config
