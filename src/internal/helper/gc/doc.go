// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package gc reduces garbage-collector overhead by pooling byte buffers
// behind small interfaces, keeping callers decoupled from the pooling
// implementation.
package gc
