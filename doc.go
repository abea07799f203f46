// Package allocation provides the types and functions to track a personal portfolio against a
// target asset allocation and to decide where money should go.
//
// The core functionalities include:
//   - Asset Classes: a tree of classes with sibling-relative target weights (AssetClass).
//   - Holdings: accounts holding manual and ticker assets, each mapped to leaf classes
//     (Account, ManualAsset, TickerAsset, ClassMapping).
//   - Allocation: the actual versus desired split of the money across the tree
//     (ComputeAllocation, ComputeAllocationForSubset).
//   - Analyzers: band checks and tax-loss harvesting candidates (CheckBands, FindHarvestable).
//   - Optimizer: the placement of a cash delta across an account's assets that moves the
//     whole portfolio closest to its target (Allocate).
//   - What-ifs: hypothetical changes layered over the holdings without touching them.
//   - Data Persistence: the portfolio as a single human editable YAML document
//     (LoadPortfolio, SavePortfolio).
//
// Every value is in a single currency. This package serves as the foundational logic for the
// `lak` command-line tool.
package allocation
