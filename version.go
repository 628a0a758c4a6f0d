package chatbot

// Version is the library version, overridable at build time:
//
//	go build -ldflags "-X github.com/aarush-luthra/smart-customer-support-chatbot.Version=v1.2.3"
var Version = "0.1.0"
