package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
	id              TEXT PRIMARY KEY,
	sender_name     TEXT NOT NULL,
	sender_email    TEXT NOT NULL,
	sender_avatar   TEXT NOT NULL DEFAULT '',
	recipient_name  TEXT NOT NULL,
	recipient_email TEXT NOT NULL,
	subject         TEXT NOT NULL,
	preview         TEXT NOT NULL DEFAULT '',
	body            TEXT NOT NULL DEFAULT '',
	date            TEXT NOT NULL,
	is_read         INTEGER NOT NULL DEFAULT 0 CHECK(is_read IN (0, 1)),
	is_archived     INTEGER NOT NULL DEFAULT 0 CHECK(is_archived IN (0, 1)),
	attachments     TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_emails_date ON emails(date);
CREATE INDEX IF NOT EXISTS idx_emails_is_read ON emails(is_read);
CREATE INDEX IF NOT EXISTS idx_emails_is_archived ON emails(is_archived);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
INSERT OR IGNORE INTO emails (
	id, sender_name, sender_email, recipient_name, recipient_email,
	subject, preview, body, date, is_read, is_archived, attachments
) VALUES
(
	'1', 'Jane Doe', 'jane.doe@business.com', 'Richard Brown', 'richard@example.com',
	'Proposal for Partnership 🎉',
	'Hi Richard, I hope you are well. I would like to explore a partnership between our teams...',
	'Hi Richard,

I hope you are well. I would like to explore a partnership between Jane Corp and Brown Organisation Corp. Our products overlap in a few places where we could help each other.

The attached proposal covers the benefits, a rough timeline and how we would roll it out. Let me know when you have time for a call.

Warm regards,
Jane Doe',
	'2024-12-10T09:00:00', 0, 0,
	'[{"filename":"Proposal Partnership.pdf","size":"1.5 MB","url":"/files/proposal.pdf"}]'
),
(
	'2', 'Mike Johnson', 'mike.j@techcorp.io', 'Richard Brown', 'richard@example.com',
	'Q4 Revenue Report 📊',
	'Hey Richard, here is the Q4 revenue report we talked about in the last meeting...',
	'Hey Richard,

Here is the Q4 revenue report we talked about in the last meeting. Revenue is up 15% on Q3.

Highlights:
- Total revenue: $2.4M
- New accounts: 342
- Churn down to 2.1%
- Enterprise deals closed: 8

Happy to walk through it at our next sync.

Best,
Mike Johnson',
	'2024-12-09T14:30:00', 0, 0,
	'[{"filename":"Q4_Revenue_Report.xlsx","size":"2.3 MB","url":"/files/q4-report.xlsx"}]'
),
(
	'3', 'Sarah Williams', 'sarah.w@designstudio.com', 'Richard Brown', 'richard@example.com',
	'New Brand Guidelines Ready ✨',
	'Hi Richard, the new brand guidelines are final and ready for your review...',
	'Hi Richard,

The new brand guidelines are final and ready for your review. We updated the palette, the type scale and the logo rules after the last feedback round.

We want to roll them out by January 15th, so please send any changes before then.

Best regards,
Sarah Williams',
	'2024-12-09T11:15:00', 1, 0,
	'[{"filename":"Brand_Guidelines_v3.pdf","size":"4.7 MB","url":"/files/brand-guidelines.pdf"}]'
),
(
	'4', 'Alex Chen', 'alex.chen@startup.co', 'Richard Brown', 'richard@example.com',
	'Meeting Tomorrow at 2 PM 📅',
	'Hi Richard, confirming tomorrow at 2 PM for the Q1 roadmap discussion...',
	'Hi Richard,

Confirming tomorrow at 2 PM for the Q1 2025 roadmap discussion. On my list:

1. Sprint priorities
2. Mobile app staffing
3. API v2 launch date
4. Folding in customer feedback

Add anything you want to cover. See you tomorrow!

Cheers,
Alex Chen',
	'2024-12-08T16:45:00', 1, 0, '[]'
),
(
	'5', 'Emily Parker', 'emily.p@marketing.io', 'Richard Brown', 'richard@example.com',
	'Campaign Results Are In! 🚀',
	'Hi Richard, the holiday campaign numbers are in and they look great...',
	'Hi Richard,

The holiday campaign numbers are in and they look great. Click-through beat our target by a wide margin and the landing page converted better than any campaign this year.

The full breakdown is attached.

Thanks,
Emily Parker',
	'2024-12-08T10:00:00', 0, 0,
	'[{"filename":"Campaign_Results_Dec.pdf","size":"890 KB","url":"/files/campaign-results.pdf"}]'
),
(
	'6', 'David Kim', 'david.kim@analytics.com', 'Richard Brown', 'richard@example.com',
	'Data Pipeline Update 🔧',
	'Hi Richard, the pipeline migration finished over the weekend...',
	'Hi Richard,

The pipeline migration finished over the weekend. Nightly jobs now complete in about half the time and the dashboards refresh every hour.

Let me know if you see anything odd in the reports.

Regards,
David Kim',
	'2024-12-07T09:30:00', 1, 0, '[]'
),
(
	'7', 'Lisa Thompson', 'lisa.t@hr.company.com', 'Richard Brown', 'richard@example.com',
	'Team Offsite Planning 🏔️',
	'Hi Richard, we are planning the team offsite for next quarter and need your input...',
	'Hi Richard,

We are planning the team offsite for next quarter and need your input on the venue. I attached three options with prices and dates.

Could you send your preference by Friday?

Thanks,
Lisa Thompson',
	'2024-12-06T15:20:00', 0, 0,
	'[{"filename":"Offsite_Options.pdf","size":"1.2 MB","url":"/files/offsite-options.pdf"}]'
),
(
	'8', 'Robert Martinez', 'robert.m@legal.firm.com', 'Richard Brown', 'richard@example.com',
	'Contract Review Completed ✅',
	'Hi Richard, we finished reviewing the vendor contract...',
	'Hi Richard,

We finished reviewing the vendor contract. Our notes are in the attached copy. Nothing blocks signing, but two clauses on liability are worth a second look.

Best,
Robert Martinez',
	'2024-12-05T11:00:00', 1, 1,
	'[{"filename":"Contract_Review_Annotated.pdf","size":"3.1 MB","url":"/files/contract-review.pdf"}]'
);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
