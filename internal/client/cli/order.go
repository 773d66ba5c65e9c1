package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

const orderUsage = "order <add|list|get|status|update|deactivate|activate|delete|search|stats>"

func (c *Cli) runOrder(ctx context.Context, args []string) error {
	verb, rest, err := subcommand(args, orderUsage)
	if err != nil {
		return err
	}

	switch verb {
	case "add":
		return c.runOrderAdd(ctx, rest)
	case "list":
		fs := c.flagSet("order list")
		all := fs.Bool("all", false, "include deactivated orders")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return show(c, c.engine.GetAllOrders(ctx, *all), "orders")
	case "get":
		id, err := parseWithID(c.flagSet("order get"), rest)
		if err != nil {
			return err
		}
		return show(c, c.engine.GetOrder(ctx, id), "order")
	case "status":
		if len(rest) != 2 {
			return fmt.Errorf("usage: order status <id> <%s>", statusChoices())
		}
		return show(c, c.engine.SetOrderStatus(ctx, rest[0], models.OrderStatus(rest[1])), "order")
	case "update":
		return c.runOrderUpdate(ctx, rest)
	case "deactivate":
		id, err := parseWithID(c.flagSet("order deactivate"), rest)
		if err != nil {
			return err
		}
		return show(c, c.engine.DeactivateOrder(ctx, id), "order")
	case "activate":
		id, err := parseWithID(c.flagSet("order activate"), rest)
		if err != nil {
			return err
		}
		return show(c, c.engine.ActivateOrder(ctx, id), "order")
	case "delete":
		id, err := parseWithID(c.flagSet("order delete"), rest)
		if err != nil {
			return err
		}
		return show(c, c.engine.DeleteOrder(ctx, id), "deleted")
	case "search":
		fs := c.flagSet("order search")
		field := fs.String("field", "status", "status, type, client_phone or address_id")
		value := fs.String("value", "", "value to match")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return show(c, c.engine.SearchOrdersByField(ctx, *field, *value), "orders")
	case "stats":
		return show(c, c.engine.OrderStats(ctx), "stats")
	default:
		return fmt.Errorf("unknown order command: %s. Usage: %s", verb, orderUsage)
	}
}

func (c *Cli) runOrderAdd(ctx context.Context, args []string) error {
	fs := c.flagSet("order add")
	var (
		in    models.OrderInput
		items itemsFlag
		paid  decimalFlag
		fee   decimalFlag
	)
	orderType := fs.String("type", string(models.OrderTypeTakeaway), "dine_in, takeaway or delivery")
	fs.StringVar(&in.Client.Name, "client", "", "client name (required)")
	fs.StringVar(&in.Client.Phone, "phone", "", "client phone")
	fs.Var(&items, "item", "NAME:QTY:PRICE, repeatable (at least one)")
	fs.StringVar(&in.Notes, "notes", "", "kitchen notes")
	fs.Var(&paid, "paid", "amount already paid")
	method := fs.String("method", "", "cash, mobile_money or card")
	addressID := fs.String("address", "", "delivery address id (delivery orders)")
	fs.Var(&fee, "fee", "delivery fee")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in.Type = models.OrderType(*orderType)
	in.Items = items
	if *addressID != "" || fee.set {
		in.Delivery = &models.DeliveryDetails{AddressID: *addressID, Fee: fee.value}
	}
	in.Payment = payment(paid, *method, models.Order{Items: items, Delivery: in.Delivery})

	return show(c, c.engine.CreateOrder(ctx, in), "order")
}

func (c *Cli) runOrderUpdate(ctx context.Context, args []string) error {
	fs := c.flagSet("order update")
	var (
		items itemsFlag
		paid  decimalFlag
		fee   decimalFlag
	)
	fs.String("status", "", statusChoices())
	fs.String("client", "", "client name")
	fs.String("phone", "", "client phone")
	fs.Var(&items, "item", "NAME:QTY:PRICE, repeatable; replaces all items")
	fs.String("notes", "", "kitchen notes")
	fs.Var(&paid, "paid", "amount paid so far")
	fs.String("method", "", "cash, mobile_money or card")
	fs.String("address", "", "delivery address id")
	fs.Var(&fee, "fee", "delivery fee")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	set := map[string]string{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = f.Value.String() })
	if len(set) == 0 {
		return fmt.Errorf("nothing to update. See 'order update -h'")
	}

	// Частичные правки клиента, оплаты и доставки дополняют текущий заказ.
	res := c.engine.GetOrder(ctx, id)
	if !res.Success {
		return show(c, res, "order")
	}
	current := res.Data

	var patch models.OrderPatch
	if v, ok := set["status"]; ok {
		status := models.OrderStatus(v)
		patch.Status = &status
	}
	if v, ok := set["notes"]; ok {
		patch.Notes = &v
	}
	if _, ok := set["item"]; ok {
		patch.Items = items
	}
	_, name := set["client"]
	_, phone := set["phone"]
	if name || phone {
		client := current.Client
		if name {
			client.Name = set["client"]
		}
		if phone {
			client.Phone = set["phone"]
		}
		patch.Client = &client
	}
	_, address := set["address"]
	if address || fee.set {
		delivery := models.DeliveryDetails{}
		if current.Delivery != nil {
			delivery = *current.Delivery
		}
		if address {
			delivery.AddressID = set["address"]
		}
		if fee.set {
			delivery.Fee = fee.value
		}
		patch.Delivery = &delivery
	}
	if _, ok := set["method"]; ok || paid.set {
		next := *current
		patch.Apply(&next)
		if !paid.set {
			paid = decimalFlag{value: current.Payment.AmountPaid, set: true}
		}
		method := string(current.Payment.Method)
		if v, ok := set["method"]; ok {
			method = v
		}
		p := payment(paid, method, next)
		patch.Payment = &p
	}

	return show(c, c.engine.UpdateOrder(ctx, id, patch), "order")
}

// payment derives the payment status from the amount paid against the
// order total.
func payment(paid decimalFlag, method string, o models.Order) models.PaymentDetails {
	p := models.PaymentDetails{
		Method: models.PaymentMethod(method),
		Status: models.PaymentUnpaid,
	}
	if !paid.set || paid.value.IsZero() {
		return p
	}
	p.AmountPaid = paid.value
	if paid.value.GreaterThanOrEqual(o.Total()) {
		p.Status = models.PaymentPaid
	} else {
		p.Status = models.PaymentPartial
	}
	return p
}

func statusChoices() string {
	return "pending|preparing|ready|out_for_delivery|completed|cancelled"
}
