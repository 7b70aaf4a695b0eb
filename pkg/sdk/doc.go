// Package docsum provides an embeddable Go client for LLM summarization of
// schemaless documents stored in Firestore, MongoDB, Redis or Valkey.
//
// Summaries are written back next to their source field as <field>_summary.
//
//	client, _ := docsum.New(ctx,
//	    docsum.WithFirestore("my-project", "firebase-credentials.json"),
//	    docsum.WithSummarizer(os.Getenv("GROQ_API_KEY"), ""),
//	)
//	defer client.Close()
//
//	docs := client.Documents("notes").List(ctx)
//	summaries, _ := client.Documents("notes").Summarize(ctx, docs[0].ID, "content")
//	results := client.BulkSummarize(ctx, "notes")
package docsum
