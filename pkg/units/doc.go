// Package units parses and formats numeric strings carrying an SI prefix, the
// notation used for component values such as "4.7k", "100n" or "2.2uF".
package units
