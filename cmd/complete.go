package cmd

import (
	"flag"

	"github.com/etnz/allocation/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the commands registered in c, whose global flags
// are in top.
func Completion(c *subcommands.Commander, top *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictors(top),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		root.Sub[cmd.Name()] = &complete.Command{Flags: predictors(f)}
	})
	if topic, ok := root.Sub["topic"]; ok {
		if topics, err := docs.GetAllTopics(); err == nil {
			topic.Args = predict.Set(topics)
		}
	}
	return root
}

func predictors(f *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case fl.Name == "portfolio":
			res[fl.Name] = predict.Files("*.yaml")
		case isBool(fl):
			res[fl.Name] = predict.Nothing
		default:
			res[fl.Name] = predict.Something
		}
	})
	return res
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
