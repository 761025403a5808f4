package utils

// UserAgent is sent with every outgoing HTTP request.
const UserAgent = "sleeper/1.0 (keyphrase poller; +https://github.com/customeros/sleeper)"
