package readex_test

import (
	"fmt"

	"github.com/pagelens/readex"
)

const exampleHTML = `<html><head><title>Article Title</title></head><body><header><nav><ul><li><a href="#">Home</a></li><li><a href="#">About</a></li></ul></nav></header><main><article><h1>Article Title</h1><p>This is a test paragraph with enough text to be considered relevant content by the Readability algorithm. We need to ensure that this paragraph has sufficient length to be scored highly by the content extraction algorithm. The algorithm looks for blocks of text that appear to be the main content of the page, as opposed to navigation, headers, footers, or other ancillary content.</p><p>Adding another paragraph increases the content score for this article element, making it more likely to be identified as the main content of the page. The Readability algorithm is designed to extract the primary content from a webpage, ignoring elements that are likely to be navigation, ads, or other non-content features.</p></article></main><footer><p>Copyright 2025</p></footer></body></html>`

func ExampleNew() {
	eng := readex.New()

	result, err := eng.Parse(exampleHTML, "")
	if err != nil {
		fmt.Printf("Error extracting article: %v\n", err)
		return
	}

	fmt.Printf("Title: %s\n", result.Title)
	// Output: Title: Article Title
}

func ExampleWithContentDigests() {
	eng := readex.New(
		readex.WithContentDigests(true),
	)

	result, err := eng.Parse(exampleHTML, "")
	if err != nil {
		fmt.Printf("Error extracting article: %v\n", err)
		return
	}

	fmt.Printf("Has digests: %v\n", len(result.Blocks) > 0 && result.Blocks[0].ContentDigest != "")
	// Output: Has digests: true
}

func ExampleEngine_Parse_secondCallFails() {
	eng := readex.New()

	if _, err := eng.Parse(exampleHTML, ""); err != nil {
		fmt.Printf("Error extracting article: %v\n", err)
		return
	}

	_, err := eng.Parse(exampleHTML, "")
	fmt.Println(err == readex.ErrAlreadyParsed)
	// Output: true
}
