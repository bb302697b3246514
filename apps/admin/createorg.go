package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/org"
)

func (cmd *commandLine) createOrg(args []string) error {
	fset := flag.NewFlagSet("createorg", flag.ContinueOnError)
	name := fset.String("name", "", "organization name (required)")
	slug := fset.String("slug", "", "URL slug; derived from the name when empty")
	if err := fset.Parse(args); err != nil {
		return errHelp
	}

	no := org.NewOrganization{Name: *name, Slug: *slug}
	if err := no.Validate(); err != nil {
		return errors.Wrap(err, "validating organization")
	}

	o, err := cmd.orgSvc.Create(no)
	if err != nil {
		return errors.Wrap(err, "creating organization")
	}

	fmt.Printf("organization %q created (id=%d, slug=%s)\n", o.Name, o.ID, o.Slug)
	fmt.Printf("calendar feed token: %s\n", o.FeedToken)
	return nil
}
