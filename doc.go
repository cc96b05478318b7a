// Package qbluff ranks poker hands with perfect-hash lookup tables.
//
// Every 5-card hand falls into one of 7462 strength classes, numbered from 1
// (royal flush) to 7462 (seven-high). A hand is ranked without comparing
// cards: a packed suit-count hash decides whether it is a flush, and a
// combinatorial hash of its rank pattern or rank histogram indexes a table
// holding its class. Hands of 6 to 9 cards take the best of their 5-card
// selections, and Omaha hands (five board cards, four hole cards, exactly
// three and two used) have their own pair of tables.
//
// # Basic Usage
//
// Ranking hands with the process-wide tables:
//
//	hand := [7]qbluff.Card(qbluff.MustParseCards("As Ks Qs Js Ts 2c 3d"))
//	r := qbluff.Evaluate7(hand)
//	fmt.Println(r, r.Category(), qbluff.Describe(r)) // 1 Straight Flush Royal Flush
//
// Building tables explicitly:
//
//	t, err := qbluff.Build(ctx, qbluff.WithWorkers(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r, err := t.Evaluate(cards...)
//
// Saving and loading a snapshot:
//
//	if err := t.WriteFile("tables.qblf"); err != nil {
//	    log.Fatal(err)
//	}
//	t, err = qbluff.Open("tables.qblf")
//
// # Concurrency
//
// Tables are built and validated once, then never modified. Every evaluator
// is a pure function of its cards and the tables and may be called from any
// number of goroutines.
//
// # Package Structure
//
//   - Public API: tables.go (Build, Default), evaluator.go (Evaluate*),
//     rank.go (HandRank, Category), card.go (Card, ParseCard)
//   - Configuration: builder_options.go (BuildOption, With* functions)
//   - Serialization: header.go (header, section directory, footer),
//     sections.go (per-table encoding), snapshot_writer.go, snapshot.go (Open)
//   - Table construction: internal/tables (class enumeration, validation)
//   - Hashing: internal/combin (HashBinary, HashQuinary), internal/bits
//   - Platform: fallocate_*.go, prefault_*.go, madvise_*.go
package qbluff
