package twitch

import "testing"

var benchmarkLines = []string{
	"PING :tmi.twitch.tv",
	":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :Hello!",
	"@badge-info=subscriber/8;badges=subscriber/6,premium/1;color=#FF0000;display-name=Redflamingo13;emotes=120232:0-6,13-19,26-32,39-45,52-58;id=2a31a9df-d6ff-4840-b211-a2547c7e656e;mod=0;room-id=11148817;subscriber=1;tmi-sent-ts=1490382457309;turbo=0;user-id=78424343;user-type= :redflamingo13!redflamingo13@redflamingo13.tmi.twitch.tv PRIVMSG #pajlada :TriHard Clap TriHard Clap TriHard Clap TriHard Clap TriHard Clap",
	"@badge-info=;badges=staff/1;color=#0D4200;display-name=ronni;emote-sets=0,33,50,237,793,2126,3517,4578,5569,9400,10337,12239;mod=1;subscriber=1;turbo=1;user-type=staff :tmi.twitch.tv USERSTATE #dallas",
	":tmi.twitch.tv 372 justinfan123123 :You are in a maze of twisty passages, all alike.",
}

func BenchmarkParseMessages(b *testing.B) {
	for n := 0; n < b.N; n++ {
		for _, line := range benchmarkLines {
			ParseMessage(line)
		}
	}
}

func BenchmarkParseTaggedPRIVMSG(b *testing.B) {
	testMessage := benchmarkLines[2]
	for n := 0; n < b.N; n++ {
		ParseMessage(testMessage)
	}
}

func BenchmarkParseTags(b *testing.B) {
	rawTags := "badge-info=subscriber/8;badges=subscriber/6,premium/1;color=#FF0000;emotes=120232:0-6,13-19,26-32;flags=;user-type="
	for n := 0; n < b.N; n++ {
		parseTags(rawTags)
	}
}
