// Package analysis builds the transcript analysis prompt and turns the model's
// reply into the stored analysis object.
//
// The model is asked for exactly seven keys. Replies are cleaned of markdown
// code fences and parsed strictly; an object is normalized so every key is
// present, and anything that is not a JSON object degrades to a single
// "summary" entry holding the cleaned reply text.
package analysis
