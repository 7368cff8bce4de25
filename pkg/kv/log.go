package kv

import "github.com/rs/zerolog/log"

var logger = log.With().Str("component", "kv").Logger()
