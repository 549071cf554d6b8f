package constants

import (
	"os"
	"time"
)

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}
	return "./media"
}

// decoder assumes every stream is written at this resolution
const TicksPerQuarterNote = 480

// clock defaults: a tenth of a quarter note every 100ms
const TickStep = 0.1
const TickInterval = 100 * time.Millisecond

// keyboard range shown by default (C4..C5)
const KeyboardLow = 60
const KeyboardHigh = 72

const MetadataTable = "pianov-metadata"

// DynamoDB BatchGetItem limit
const MaxMetadataBatch = 100
