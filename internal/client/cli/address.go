package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/store"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

const addressUsage = "address <add|list|get|update|deactivate|activate|delete|search|near|stats>"

func (c *Cli) runAddress(ctx context.Context, args []string) error {
	verb, rest, err := subcommand(args, addressUsage)
	if err != nil {
		return err
	}

	switch verb {
	case "add":
		return c.runAddressAdd(ctx, rest)
	case "list":
		fs := c.flagSet("address list")
		all := fs.Bool("all", false, "include deactivated addresses")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return show(c, c.engine.GetAllAddresses(ctx, *all), "addresses")
	case "get":
		id, err := parseWithID(c.flagSet("address get"), rest)
		if err != nil {
			return err
		}
		return show(c, c.engine.GetAddress(ctx, id), "address")
	case "update":
		return c.runAddressUpdate(ctx, rest)
	case "deactivate":
		id, err := parseWithID(c.flagSet("address deactivate"), rest)
		if err != nil {
			return err
		}
		return show(c, c.engine.DeactivateAddress(ctx, id), "address")
	case "activate":
		id, err := parseWithID(c.flagSet("address activate"), rest)
		if err != nil {
			return err
		}
		return show(c, c.engine.ActivateAddress(ctx, id), "address")
	case "delete":
		id, err := parseWithID(c.flagSet("address delete"), rest)
		if err != nil {
			return err
		}
		return show(c, c.engine.DeleteAddress(ctx, id), "deleted")
	case "search":
		fs := c.flagSet("address search")
		field := fs.String("field", "commune", "department, commune, ward or district")
		value := fs.String("value", "", "value to match")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return show(c, c.engine.SearchAddressesByField(ctx, *field, *value), "addresses")
	case "near":
		fs := c.flagSet("address near")
		var center pointFlag
		fs.Var(&center, "location", "center as LAT,LNG (required)")
		radius := fs.Float64("radius", store.DefaultRadiusKm, "radius in km")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if center.point == nil {
			return fmt.Errorf("missing -location. Usage: address near -location LAT,LNG [-radius KM]")
		}
		return show(c, c.engine.SearchAddressesByProximity(ctx, center.point.Lat, center.point.Lng, *radius), "nearby")
	case "stats":
		return show(c, c.engine.AddressStats(ctx), "stats")
	default:
		return fmt.Errorf("unknown address command: %s. Usage: %s", verb, addressUsage)
	}
}

func (c *Cli) runAddressAdd(ctx context.Context, args []string) error {
	fs := c.flagSet("address add")
	var in models.AddressInput
	var location pointFlag
	fs.StringVar(&in.Department, "department", "", "department (required)")
	fs.StringVar(&in.Commune, "commune", "", "commune (required)")
	fs.StringVar(&in.Ward, "ward", "", "arrondissement")
	fs.StringVar(&in.District, "district", "", "quartier")
	fs.StringVar(&in.Label, "label", "", "free text landmark")
	fs.Var(&location, "location", "coordinates as LAT,LNG")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.Location = location.point

	return show(c, c.engine.CreateAddress(ctx, in), "address")
}

func (c *Cli) runAddressUpdate(ctx context.Context, args []string) error {
	fs := c.flagSet("address update")
	var location pointFlag
	fs.String("department", "", "department")
	fs.String("commune", "", "commune")
	fs.String("ward", "", "arrondissement")
	fs.String("district", "", "quartier")
	fs.String("label", "", "free text landmark")
	fs.Var(&location, "location", "coordinates as LAT,LNG")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	// только явно переданные флаги попадают в патч
	var patch models.AddressPatch
	fs.Visit(func(f *flag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case "department":
			patch.Department = &value
		case "commune":
			patch.Commune = &value
		case "ward":
			patch.Ward = &value
		case "district":
			patch.District = &value
		case "label":
			patch.Label = &value
		case "location":
			patch.Location = location.point
		}
	})

	return show(c, c.engine.UpdateAddress(ctx, id, patch), "address")
}
