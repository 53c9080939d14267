package orderbot

import (
	"fmt"
	"strconv"
	"strings"

	"orderbot/internal/menu"
	"orderbot/internal/order"
)

// Meta identifies terminal inputs that do not map to an operation.
type Meta int

const (
	MetaNone Meta = iota
	MetaMenu
	MetaState
	MetaHelp
	MetaQuit
)

// Command is one parsed line of user input: either an operation with its
// arguments or a meta command.
type Command struct {
	Op   string
	Args Args
	Meta Meta
}

var sizeWords = map[string]menu.Size{
	"large":   menu.SizeLarge,
	"medium":  menu.SizeMedium,
	"small":   menu.SizeSmall,
	"regular": menu.SizeRegular,
}

// Parse turns a line of input into a command. For add commands the unit
// price is computed here from the catalog plus extras, so the add_item
// operation receives a caller-supplied price.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty input")
	}

	verb := strings.ToLower(fields[0])
	rest := fields[1:]

	switch verb {
	case "menu":
		return Command{Meta: MetaMenu}, nil
	case "state":
		return Command{Meta: MetaState}, nil
	case "help":
		return Command{Meta: MetaHelp}, nil
	case "quit", "exit":
		return Command{Meta: MetaQuit}, nil

	case "start":
		return Command{Op: order.OpStartOrder}, nil
	case "add":
		return parseAdd(rest)
	case "remove":
		if len(rest) != 1 {
			return Command{}, fmt.Errorf("usage: remove <item number>")
		}
		index, err := strconv.Atoi(rest[0])
		if err != nil {
			return Command{}, fmt.Errorf("usage: remove <item number>")
		}
		return Command{Op: order.OpRemoveItem, Args: Args{Index: index}}, nil
	case "done":
		return Command{Op: order.OpFinishOrderCollection}, nil
	case "pickup":
		return Command{Op: order.OpSetOrderType, Args: Args{OrderType: order.TypePickup}}, nil
	case "delivery":
		return Command{Op: order.OpSetOrderType, Args: Args{OrderType: order.TypeDelivery}}, nil
	case "address":
		if len(rest) == 0 {
			return Command{}, fmt.Errorf("usage: address <full delivery address>")
		}
		return Command{Op: order.OpSetDeliveryAddress, Args: Args{Address: strings.Join(rest, " ")}}, nil
	case "confirm":
		return Command{Op: order.OpConfirmOrder}, nil
	case "more":
		return Command{Op: order.OpAddMoreItems}, nil
	case "pay":
		if len(rest) == 0 {
			return Command{}, fmt.Errorf("usage: pay <method> (cash, credit card, debit)")
		}
		return Command{Op: order.OpProcessPayment, Args: Args{PaymentMethod: strings.Join(rest, " ")}}, nil
	case "back":
		return Command{Op: order.OpGoBackToOrder}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q (type 'help' for the command list)", verb)
}

// parseAdd handles: add [quantity] <item name> [size] [+extra ...]
func parseAdd(fields []string) (Command, error) {
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("usage: add [quantity] <item> [size] [+extra ...]")
	}

	quantity := 1
	if n, err := strconv.Atoi(fields[0]); err == nil {
		quantity = n
		fields = fields[1:]
	}

	var (
		size      = menu.SizeNone
		extras    []string
		nameParts []string
	)
	for _, field := range fields {
		lower := strings.ToLower(field)
		if strings.HasPrefix(lower, "+") {
			extras = append(extras, menu.Normalize(strings.TrimPrefix(lower, "+")))
			continue
		}
		if s, ok := sizeWords[lower]; ok && size == menu.SizeNone {
			size = s
			continue
		}
		nameParts = append(nameParts, lower)
	}

	if len(nameParts) == 0 {
		return Command{}, fmt.Errorf("usage: add [quantity] <item> [size] [+extra ...]")
	}

	name := menu.Normalize(strings.Join(nameParts, " "))
	category, ok := menu.FindCategory(name)
	if !ok {
		return Command{}, fmt.Errorf("%q is not on the menu (type 'menu' to see it)", name)
	}
	if category == menu.CategoryTopping {
		return Command{}, fmt.Errorf("%q is a topping; add it to a pizza with +%s", name, name)
	}

	unitPrice, err := menu.LookupPrice(category, name, size, extras)
	if err != nil {
		return Command{}, err
	}

	return Command{
		Op: order.OpAddItem,
		Args: Args{Item: order.Item{
			Name:      name,
			Size:      size,
			Quantity:  quantity,
			Extras:    extras,
			UnitPrice: unitPrice,
		}},
	}, nil
}

// Help returns the terminal command reference.
func Help() string {
	return `Commands:
  start                                  begin your order
  add [qty] <item> [size] [+extra ...]   add an item (e.g. "add 2 pepperoni large +mushrooms")
  remove <n>                             remove item number n
  done                                   finish choosing items
  pickup | delivery                      choose order type
  address <full address>                 set the delivery address
  confirm                                confirm the order summary
  more                                   go back and add more items
  pay <method>                           pay (cash, credit card, debit)
  back                                   return from payment to the order
  menu | state | help | quit`
}
