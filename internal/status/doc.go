// Package status projects errors and operation progress into status lines.
package status
