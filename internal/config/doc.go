// Package config computes the effective synthesis configuration for a
// declaration by merging four precedence layers: call-site directive
// options, enclosing-type defaults, process-wide configuration, and
// built-in defaults. Resolution is field-wise first-non-absent-wins and
// always total: the built-in layer sets every field.
package config
