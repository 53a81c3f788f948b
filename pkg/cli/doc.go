// Package cli implements the langconv command line.
//
//	langconv serve                       run the mock backend over HTTP
//	langconv languages list|get|find|search|add|update|delete
//	langconv conversions list|get|find|search|add|update|delete
//	langconv version
package cli
