// Package config loads and validates the vplan engine configuration.
//
// Configuration comes from a single YAML file with three layers of
// precedence (lowest to highest):
//
//  1. Built-in defaults
//  2. The YAML file
//  3. Environment variables (VPLAN_SECTION_KEY)
//
// Secrets (the InfluxDB token, MQTT credentials) should come from the
// environment rather than the file. The SmartThings PAT token is not
// configuration at all: it is operator-managed state stored in the database.
package config
