/*
Package chatbot is a deterministic customer support engine: free-text input
goes in, a canonical intent, the next dialogue state and a ranked list of
next actions come out. There is no machine learning anywhere in the path;
every answer is reproducible from the bot definition.

Five small structures cooperate per message:

  - a prefix trie answers live auto-complete queries over the support
    vocabulary;
  - a union-find resolver maps synonymous phrasings ("where is my order",
    "tracking") onto one canonical intent;
  - a keyword FAQ table answers common questions directly;
  - a dialogue graph advances the per-session conversation state through
    keyword-triggered transitions, with a bounded history stack behind the
    "back" command;
  - a weighted suggestion graph ranks quick actions for the new position.

Sessions are the only mutable state. They live behind a pluggable store
(in-memory by default, Redis for multi-replica deployments) and every turn
is an atomic read-modify-write under a per-session lock.

# Usage

	bot, err := chatbot.New()
	if err != nil {
		log.Fatal(err)
	}

	res, err := bot.ProcessMessage(context.Background(), "session-123", "where is my order")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Reply)
	for _, s := range res.Suggestions {
		fmt.Println("->", s.Label)
	}

With no options the bot runs the embedded stock e-commerce support flow; use
WithConfigPath to load your own YAML definition and WithSessionStore /
WithLocker to swap the persistence layer. The cmd/chatbot binary serves the
same engine over a JSON HTTP API.
*/
package chatbot
