// Package plan defines the vacation lighting plan document model.
//
// A plan document is authored as YAML, validated on load, and compiled into
// an immutable Document. Compilation expands symbolic day lists into weekday
// sets, parses trigger times and variations into typed specs, and pins the
// schema version against the supported window. Everything downstream
// (schedule resolution, reconciliation) works from the compiled Document and
// never re-parses the raw text.
//
// The document layout:
//
//	version: 1.0.0
//	plan:
//	  name: my-house
//	  location: My House
//	  refresh_time: "00:30"
//	  refresh_zone: America/Chicago
//	  groups:
//	    - name: first-floor-lights
//	      devices:
//	        - room: Living Room
//	          device: Sofa Lamp
//	      triggers:
//	        - days: [weekends]
//	          on_time: sunset
//	          off_time: sunrise
//	          variation: none
//
// Thread Safety: a Document is immutable after Load and safe for concurrent
// use.
package plan
