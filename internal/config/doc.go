// Package config provides the explicit configuration object for the
// opportunity pipeline: the fixed currency rate table, amount-range bucket
// thresholds, cleaning imputation policy and logging settings.
//
// Configuration is loaded from environment variables (prefix OPP) merged
// with an optional config.yaml, validated once at startup, and passed into
// each stage constructor. Stages never read configuration from globals.
package config
