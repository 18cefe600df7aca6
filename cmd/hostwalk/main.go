// Command hostwalk resolves domain names iteratively from the root servers
// and prints their terminal CNAME, A, AAAA and MX records the way host would.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hostwalk/hostwalk"
	"github.com/hostwalk/hostwalk/cache"
	"github.com/sirupsen/logrus"
)

func printRecords(w io.Writer, recs *hostwalk.Records) {
	for _, c := range recs.CNAME {
		fmt.Fprintf(w, "%s is an alias for %s\n", c.Alias, c.Name)
	}
	for _, a := range recs.A {
		fmt.Fprintf(w, "%s has address %s\n", a.Name, a.Address)
	}
	for _, a := range recs.AAAA {
		fmt.Fprintf(w, "%s has IPv6 address %s\n", a.Name, a.Address)
	}
	for _, m := range recs.MX {
		fmt.Fprintf(w, "%s mail is handled by %d %s\n", m.Name, m.Preference, m.Exchange)
	}
}

func main() {
	verbose := flag.Bool("v", false, "increase output verbosity")
	flag.Parse()
	if flag.NArg() < 1 {
		logrus.Fatalf("usage: %s [-v] name [name ...]", os.Args[0])
	}

	var trace io.Writer
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
		trace = os.Stderr
	}

	r := hostwalk.New()
	c := cache.New()
	ctx := context.Background()
	for _, name := range flag.Args() {
		recs, err := r.Collect(ctx, name, trace, c)
		if err != nil {
			logrus.WithError(err).Errorf("lookup %s", name)
			continue
		}
		if trace != nil {
			fmt.Fprintln(trace)
		}
		printRecords(os.Stdout, recs)
	}
	logrus.Debugf("cache: %d entries, %.0f%% hit ratio", c.Entries(), c.HitRatio())
}
