package sqlinline

const QInsertDonation = `--sql 88d36466-e1a0-4e1a-8350-b27e862f8e3e
insert into donations(project_id, amount, phone_number, status, donor_country)
values ($1::uuid, $2::bigint, $3, 'pending', $4)
returning id;
`

const QSetDonationCheckout = `--sql 58ea41b4-2f10-4400-ad0a-c2c7f8cf42c0
update donations
set checkout_request_id = $2,
    merchant_request_id = $3,
    updated_at = now()
where id = $1::uuid;
`

// QMarkDonationFailed records a terminal failure. The status guard keeps the
// transition one-shot even when the gateway delivers the same result twice.
const QMarkDonationFailed = `--sql fe22e2b6-87bd-4aad-a756-5480f6e9a532
update donations
set status = 'failed',
    failure_reason = $2,
    updated_at = now()
where id = $1::uuid
  and status = 'pending';
`

const QSelectDonationByCheckout = `--sql 295a2374-0c08-4a09-bb12-b6140eb26fda
select id, project_id, amount, status
from donations
where checkout_request_id = $1
limit 1;
`

const QCompleteDonation = `--sql 41035b71-dabd-4b1d-a1a2-76b4f0b5a76c
update donations
set status = 'completed',
    mpesa_receipt_number = $2,
    transaction_date = $3,
    updated_at = now()
where id = $1::uuid
  and status = 'pending';
`

const QListProjectDonations = `--sql 67de8a33-39bc-407d-81de-686b791fd5f0
select id, amount, phone_number, coalesce(mpesa_receipt_number, ''), created_at
from donations
where project_id = $1::uuid
  and status = 'completed'
order by created_at desc
limit $2::int;
`

const QListRecentDonations = `--sql aa7fc32d-8b44-4825-b818-271f93c88320
select d.id, d.project_id, p.title, d.amount, d.phone_number, d.created_at
from donations d
join projects p on p.id = d.project_id
where d.status = 'completed'
order by d.created_at desc
limit $1::int;
`
