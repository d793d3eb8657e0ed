// Package wordfreq turns raw text into a word frequency table.
//
// # Tokenizing
//
// A [Tokenizer] splits text on anything that is not a letter, digit or inner
// apostrophe, folds case, and drops stop words and excluded words:
//
//	tok := wordfreq.NewTokenizer(wordfreq.TokenizerOptions{Exclude: []string{"lorem"}})
//	for w := range tok.Tokens(text) {
//	    ...
//	}
//
// [Tokenizer.Tokens] is lazy and may be ranged over any number of times.
//
// # Counting
//
// [Table.Add] merges singular and plural forms with a simple trailing-"s"
// heuristic. It is not a stemmer: "bus" and "bu" would be merged, "mice" and
// "mouse" would not. The first form seen wins unless the plural was seen
// first, in which case the count moves to the singular.
//
// [CountChunks] counts several chunks concurrently and merges the per-chunk
// tables after all workers finish, or returns as soon as the context is
// cancelled.
package wordfreq
