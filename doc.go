/*
Package readex extracts the readable article content from an HTML page,
the way a browser's reader mode does: given the raw HTML and an optional
base URL, it scores and selects the DOM subtree most likely to be the
article body, then strips navigation, ads, and other clutter around it.

Basic usage:

    import "github.com/pagelens/readex"

    eng := readex.New()
    result, err := eng.Parse(htmlString, "https://example.com/article")
    if err != nil {
        // handle error
    }

    fmt.Printf("Title: %s\n", result.Title)
    fmt.Printf("Byline: %s\n", result.Byline)
    fmt.Printf("Published: %s\n", result.PublishedTime)
    fmt.Printf("Content: %s\n", result.Content)

An Engine is single-use: Parse may be called exactly once per Engine.
Construct a fresh Engine for each document.

Advanced usage with options:

    eng := readex.New(
        readex.WithContentDigests(true),
        readex.WithNodeIndexes(true),
        readex.WithCharThreshold(200),
    )
    result, err := eng.Parse(htmlString, baseURL)

    for _, block := range result.Blocks {
        fmt.Printf("%s (%s)\n", block.Text, block.ContentDigest)
    }

Features:

  - Article title, byline, direction/language, site name, and publish time
  - JSON-LD metadata extraction alongside the meta-tag ladder
  - Site-specific promotion/veto rules for a handful of well-known layouts
  - Multi-attempt extraction with progressively relaxed heuristics
  - Optional per-block content digests and node indexes for diffing
*/
package readex
