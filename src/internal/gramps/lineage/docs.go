// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package lineage walks the family graph of a genealogy record store
// breadth-first, bounded by generation, in either direction (ancestors or
// descendants). Records are fetched lazily one at a time through a Store;
// unresolvable branches are pruned rather than failing the traversal, and a
// visited-set keeps cyclic (miskeyed) graphs from looping. Discovered
// relatives are labeled by generation distance and grouped by generation.
package lineage
