package challenge_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/starnotary/foundation/blockchain/challenge"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Message(t *testing.T) {
	issued := time.Unix(1700000000, 0)

	type table struct {
		name     string
		identity string
		exp      string
	}

	tt := []table{
		{
			name:     "address",
			identity: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4",
			exp:      `{"identity":"0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4","issuedAt":1700000000,"tag":"starRegistry"}`,
		},
		{
			name:     "colons",
			identity: "urn:star:1:2",
			exp:      `{"identity":"urn:star:1:2","issuedAt":1700000000,"tag":"starRegistry"}`,
		},
	}

	t.Log("Given the need to produce and parse challenge messages.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen issuing a challenge for %q.", testID, tst.identity)
				{
					msg := challenge.New(tst.identity, issued, challenge.DefaultTag).Message()
					if msg != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, msg)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould produce the deterministic message.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould produce the deterministic message.", success, testID)

					c, err := challenge.Parse(msg)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to parse the message: %v", failed, testID, err)
					}

					if c.Identity != tst.identity || c.IssuedAt != issued.Unix() || c.Tag != challenge.DefaultTag {
						t.Fatalf("\t%s\tTest %d:\tShould get back the same challenge: %+v", failed, testID, c)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the same challenge.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_ParseMalformed(t *testing.T) {
	messages := []string{
		"addr1:1700000000:starRegistry",
		`{"identity":"addr1","issuedAt":1700000000,"tag":"starRegistry","extra":1}`,
		`{"tag":"starRegistry","identity":"addr1","issuedAt":1700000000}`,
		`{"identity":"addr1", "issuedAt":1700000000,"tag":"starRegistry"}`,
		`{"identity":"","issuedAt":1700000000,"tag":"starRegistry"}`,
		`{"identity":"addr1","issuedAt":0,"tag":"starRegistry"}`,
		`{"identity":"addr1","issuedAt":1700000000,"tag":"starRegistry"}{}`,
	}

	t.Log("Given the need to reject messages that are not canonical challenges.")
	{
		for testID, msg := range messages {
			t.Logf("\tTest %d:\tWhen parsing %s.", testID, msg)
			{
				if _, err := challenge.Parse(msg); !errors.Is(err, challenge.ErrMalformed) {
					t.Fatalf("\t%s\tTest %d:\tShould reject the message: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould reject the message.", success, testID)
			}
		}
	}
}

func Test_Freshness(t *testing.T) {
	issued := time.Unix(1700000000, 0)
	c := challenge.New("addr1", issued, challenge.DefaultTag)

	type table struct {
		elapsed time.Duration
		exp     error
	}

	tt := []table{
		{elapsed: 0, exp: nil},
		{elapsed: 299 * time.Second, exp: nil},
		{elapsed: 300 * time.Second, exp: nil},
		{elapsed: 301 * time.Second, exp: challenge.ErrExpired},
		{elapsed: -10 * time.Second, exp: challenge.ErrMalformed},
	}

	t.Log("Given the need to bound a challenge to its validity window.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen %s have elapsed.", testID, tst.elapsed)
			{
				err := c.CheckFresh(issued.Add(tst.elapsed), challenge.DefaultWindow)
				if !errors.Is(err, tst.exp) || (tst.exp == nil && err != nil) {
					t.Fatalf("\t%s\tTest %d:\tShould get %v, got %v.", failed, testID, tst.exp, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get %v.", success, testID, tst.exp)
			}
		}
	}
}

func Test_Binding(t *testing.T) {
	c := challenge.New("addr1", time.Now(), challenge.DefaultTag)

	t.Log("Given the need to bind a challenge to one identity.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen checking the identity and tag.", testID)
		{
			if err := c.CheckBinding("addr1", challenge.DefaultTag); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept the issuing identity: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept the issuing identity.", success, testID)

			if err := c.CheckBinding("addr2", challenge.DefaultTag); !errors.Is(err, challenge.ErrMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould reject another identity: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject another identity.", success, testID)

			if err := c.CheckBinding("addr1", "otherRegistry"); !errors.Is(err, challenge.ErrMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould reject another tag: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject another tag.", success, testID)
		}
	}
}

func Test_Trackers(t *testing.T) {
	ldb, err := challenge.NewLevelDBTracker(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to open the leveldb tracker: %v", err)
	}
	defer ldb.Close()

	trackers := map[string]challenge.Tracker{
		"memory":  challenge.NewMemoryTracker(),
		"leveldb": ldb,
	}

	now := time.Unix(1700000000, 0)
	expires := now.Add(challenge.DefaultWindow)
	const msg = `{"identity":"addr1","issuedAt":1700000000,"tag":"starRegistry"}`

	t.Log("Given the need to use a challenge only once.")
	{
		for name, tracker := range trackers {
			f := func(t *testing.T) {
				t.Logf("\tWhen consuming a challenge with the %s tracker.", name)
				{
					if err := tracker.Consume(msg, now, expires); err != nil {
						t.Fatalf("\t%s\tShould be able to consume the challenge: %v", failed, err)
					}
					t.Logf("\t%s\tShould be able to consume the challenge.", success)

					if err := tracker.Consume(msg, now.Add(time.Second), expires); !errors.Is(err, challenge.ErrReused) {
						t.Fatalf("\t%s\tShould reject the challenge a second time: %v", failed, err)
					}
					t.Logf("\t%s\tShould reject the challenge a second time.", success)

					if err := tracker.Release(msg); err != nil {
						t.Fatalf("\t%s\tShould be able to release the challenge: %v", failed, err)
					}

					if err := tracker.Consume(msg, now, expires); err != nil {
						t.Fatalf("\t%s\tShould be able to consume a released challenge: %v", failed, err)
					}
					t.Logf("\t%s\tShould be able to consume a released challenge.", success)

					later := expires.Add(time.Second)
					if err := tracker.Consume(msg, later, later.Add(challenge.DefaultWindow)); err != nil {
						t.Fatalf("\t%s\tShould forget the challenge once it expired: %v", failed, err)
					}
					t.Logf("\t%s\tShould forget the challenge once it expired.", success)
				}
			}

			t.Run(name, f)
		}
	}
}
