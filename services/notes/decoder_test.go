package notes

import (
	"testing"

	"tourbook/models"
)

func TestMapStringDecoderCustomerDefaults(t *testing.T) {
	c := MapStringDecoder{}.DecodeCustomer("map[name:Jane]")
	if c.Name != "Jane" {
		t.Fatalf("name = %q", c.Name)
	}
	if c.Email != DefaultCustomerEmail || c.Phone != DefaultCustomerPhone || c.Address != DefaultCustomerAddress {
		t.Fatalf("defaults not applied: %#v", c)
	}

	empty := MapStringDecoder{}.DecodeCustomer("not a map")
	if empty.Name != DefaultCustomerName || empty.Email != DefaultCustomerEmail {
		t.Fatalf("defaults not applied to malformed input: %#v", empty)
	}
}

func TestMapStringDecoderKeepsPhoneDigits(t *testing.T) {
	c := MapStringDecoder{}.DecodeCustomer("map[name:Jane phone:0800123 panNumber:ABCDE1234F]")
	if c.Phone != "0800123" {
		t.Fatalf("phone = %q, want leading zero preserved", c.Phone)
	}
	if c.PanNumber != "ABCDE1234F" {
		t.Fatalf("panNumber = %q", c.PanNumber)
	}
}

func TestJSONDecoder(t *testing.T) {
	d := JSONDecoder{}
	c := d.DecodeCustomer(`{"name":"Jane Doe","email":"jane@x.com","phone":"999"}`)
	if c.Name != "Jane Doe" || c.Email != "jane@x.com" || c.Address != DefaultCustomerAddress {
		t.Fatalf("unexpected customer %#v", c)
	}

	travelers := d.DecodeTravelers(`[{"name":"Jane Doe","age":30,"gender":"f"},{"name":"Raj","age":"4"}]`)
	if len(travelers) != 2 {
		t.Fatalf("decoded %d travelers", len(travelers))
	}
	if travelers[0].Age != 30 || travelers[0].Gender != models.GenderFemale {
		t.Fatalf("unexpected first traveler %#v", travelers[0])
	}
	if travelers[1].Age != 4 || travelers[1].Gender != models.GenderUnknown {
		t.Fatalf("unexpected second traveler %#v", travelers[1])
	}

	if got := d.DecodeTravelers("map[name:Jane]"); len(got) != 0 {
		t.Fatalf("expected empty result for non-JSON input, got %#v", got)
	}
}

func TestNewDecoder(t *testing.T) {
	if d, err := NewDecoder(""); err != nil || d != (MapStringDecoder{}) {
		t.Fatalf("NewDecoder(\"\") = %#v, %v", d, err)
	}
	if d, err := NewDecoder("JSON"); err != nil || d != (JSONDecoder{}) {
		t.Fatalf("NewDecoder(JSON) = %#v, %v", d, err)
	}
	if _, err := NewDecoder("xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestFallbackTraveler(t *testing.T) {
	tr := FallbackTraveler(models.Customer{Name: "Jane"})
	if tr.Name != "Jane" || tr.Age != 0 || tr.Gender != models.GenderUnknown {
		t.Fatalf("unexpected fallback %#v", tr)
	}
}
