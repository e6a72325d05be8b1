package rsmarisa_test

import (
	"fmt"
	"log"

	"github.com/tokuhirom/rsmarisa"
)

func Example() {
	ks := rsmarisa.NewKeyset()
	ks.PushString("app")
	ks.PushString("apple")
	ks.PushString("application")

	t, err := rsmarisa.Build(ks)
	if err != nil {
		log.Fatal(err)
	}

	id, ok := t.LookupString("apple")
	fmt.Println(id, ok)

	key, err := t.ReverseLookup(id)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(key))
	// Output:
	// 1 true
	// apple
}

func ExampleTrie_CommonPrefixSearch() {
	t, err := rsmarisa.BuildStrings([]string{"app", "apple", "application"})
	if err != nil {
		log.Fatal(err)
	}

	agent := rsmarisa.NewAgent()
	agent.SetQueryString("applications")
	for t.CommonPrefixSearch(agent) {
		fmt.Println(agent.ID(), agent.KeyString())
	}
	// Output:
	// 0 app
	// 2 application
}

func ExampleTrie_Predictive() {
	t, err := rsmarisa.BuildStrings([]string{"app", "apple", "banana"})
	if err != nil {
		log.Fatal(err)
	}

	for id, key := range t.Predictive([]byte("app")) {
		fmt.Println(id, string(key))
	}
	// Output:
	// 0 app
	// 1 apple
}
