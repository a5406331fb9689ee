package utils

import "github.com/google/uuid"

// GenMessageID returns a fresh opaque message identifier.
func GenMessageID() string { return "msg_" + uuid.NewString() }

// GenCompareGroupID returns a fresh comparative pair group identifier.
func GenCompareGroupID() string { return "cmp_" + uuid.NewString() }
